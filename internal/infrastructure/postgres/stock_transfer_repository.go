package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo traslados (cabecera + stock_transfer_items) sobre PostgreSQL.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `id, transfer_number, from_warehouse_id, to_warehouse_id, status, requested_by, notes,
	shipped_at, completed_at, cancelled_at, version, created_at, updated_at`

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	err := row.Scan(&t.ID, &t.TransferNumber, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status,
		&t.RequestedBy, &t.Notes, &t.ShippedAt, &t.CompletedAt, &t.CancelledAt, &t.Version,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste el traslado con versión 1.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO stock_transfers (`+transferColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12)`,
			t.ID, t.TransferNumber, t.FromWarehouseID, t.ToWarehouseID, string(t.Status),
			t.RequestedBy, t.Notes, t.ShippedAt, t.CompletedAt, t.CancelledAt, t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("traslado %s: %w", t.TransferNumber, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert stock transfer: %w", err)
		}
		return upsertTransferItems(ctx, tx, t)
	})
	if err != nil {
		return err
	}
	t.Version = 1
	return nil
}

// GetByID obtiene el traslado con sus líneas; (nil, nil) si no existe.
func (r *StockTransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	if err := r.loadItems(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update guarda cabecera y cantidades de las líneas si la versión coincide.
func (r *StockTransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE stock_transfers
			SET status = $3, notes = $4, shipped_at = $5, completed_at = $6, cancelled_at = $7,
			    version = version + 1, updated_at = $8
			WHERE id = $1 AND version = $2`,
			t.ID, t.Version, string(t.Status), t.Notes, t.ShippedAt, t.CompletedAt, t.CancelledAt, t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update stock transfer: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("traslado %s: %w", t.TransferNumber, domain.ErrConflict)
		}
		return upsertTransferItems(ctx, tx, t)
	})
	if err != nil {
		return err
	}
	t.Version++
	return nil
}

func upsertTransferItems(ctx context.Context, tx pgx.Tx, t *entity.StockTransfer) error {
	for i, it := range t.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO stock_transfer_items (id, transfer_id, position, product_id, requested_quantity,
			                                  shipped_quantity, received_quantity, returned_quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				shipped_quantity = EXCLUDED.shipped_quantity,
				received_quantity = EXCLUDED.received_quantity,
				returned_quantity = EXCLUDED.returned_quantity`,
			it.ID, t.ID, i, it.ProductID, it.RequestedQuantity, it.ShippedQuantity,
			it.ReceivedQuantity, it.ReturnedQuantity,
		)
		if err != nil {
			return fmt.Errorf("upsert stock transfer item %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *StockTransferRepo) loadItems(ctx context.Context, t *entity.StockTransfer) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, requested_quantity, shipped_quantity, received_quantity, returned_quantity
		FROM stock_transfer_items WHERE transfer_id = $1 ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("list stock transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.RequestedQuantity, &it.ShippedQuantity,
			&it.ReceivedQuantity, &it.ReturnedQuantity); err != nil {
			return fmt.Errorf("scan stock transfer item: %w", err)
		}
		t.Items = append(t.Items, it)
	}
	return rows.Err()
}

// List traslados más recientes primero, opcionalmente filtrados por estado.
func (r *StockTransferRepo) List(ctx context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+transferColumns+` FROM stock_transfers
		WHERE ($1 = '' OR status = $1)
		ORDER BY transfer_number DESC LIMIT $2 OFFSET $3`, string(status), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadItems(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ListNumbers números de traslado del año.
func (r *StockTransferRepo) ListNumbers(ctx context.Context, year int) ([]string, error) {
	return listNumbers(ctx, r.q, `SELECT transfer_number FROM stock_transfers WHERE transfer_number LIKE $1`,
		yearPattern(inventory.PrefixTransfer, year))
}
