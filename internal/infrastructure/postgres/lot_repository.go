package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, product_id, warehouse_id, lot_number, quantity, reserved_quantity,
	manufacture_date, expiry_date, version, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.ProductID, &l.WarehouseID, &l.LotNumber, &l.Quantity, &l.ReservedQuantity,
		&l.ManufactureDate, &l.ExpiryDate, &l.Version, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste el lote con versión 1. Número de lote único por producto y bodega.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lots (`+lotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)`,
		lot.ID, lot.ProductID, lot.WarehouseID, lot.LotNumber, lot.Quantity, lot.ReservedQuantity,
		lot.ManufactureDate, lot.ExpiryDate, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %s: %w", lot.LotNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	lot.Version = 1
	return nil
}

// GetByID obtiene un lote; (nil, nil) si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// Update guarda cantidad y reserva si la versión coincide.
func (r *LotRepo) Update(ctx context.Context, lot *entity.Lot) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE lots SET quantity = $3, reserved_quantity = $4, expiry_date = $5,
		       version = version + 1, updated_at = $6
		WHERE id = $1 AND version = $2`,
		lot.ID, lot.Version, lot.Quantity, lot.ReservedQuantity, lot.ExpiryDate, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", lot.ID, domain.ErrConflict)
	}
	lot.Version++
	return nil
}

// ListByProduct lotes del producto, primero los que vencen antes.
func (r *LotRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Lot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM lots WHERE product_id = $1
		ORDER BY expiry_date NULLS LAST, lot_number`, productID)
}

// ListAll todos los lotes, primero los que vencen antes.
func (r *LotRepo) ListAll(ctx context.Context) ([]*entity.Lot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM lots ORDER BY expiry_date NULLS LAST, lot_number`)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
