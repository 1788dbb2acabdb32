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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra (cabecera + purchase_order_items) sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, po_number, supplier_id, warehouse_id, status, currency, tax_rate, shipping_cost,
	notes, created_by, approved_by, approved_at, sent_at, received_date, cancelled_at, version, created_at, updated_at`

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.SupplierID, &po.WarehouseID, &po.Status, &po.Currency,
		&po.TaxRate, &po.ShippingCost, &po.Notes, &po.CreatedBy, &po.ApprovedBy, &po.ApprovedAt,
		&po.SentAt, &po.ReceivedDate, &po.CancelledAt, &po.Version, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// Create persiste cabecera y líneas con versión 1. Número duplicado -> domain.ErrDuplicate.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO purchase_orders (`+poColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17)`,
			po.ID, po.PONumber, po.SupplierID, po.WarehouseID, string(po.Status), po.Currency,
			po.TaxRate, po.ShippingCost, po.Notes, po.CreatedBy, po.ApprovedBy, po.ApprovedAt,
			po.SentAt, po.ReceivedDate, po.CancelledAt, po.CreatedAt, po.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("orden %s: %w", po.PONumber, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert purchase order: %w", err)
		}
		return upsertPOItems(ctx, tx, po)
	})
	if err != nil {
		return err
	}
	po.Version = 1
	return nil
}

// GetByID obtiene la orden con sus líneas; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.loadItems(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Update guarda cabecera y líneas si la versión coincide.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE purchase_orders
			SET status = $3, notes = $4, approved_by = $5, approved_at = $6, sent_at = $7,
			    received_date = $8, cancelled_at = $9, version = version + 1, updated_at = $10
			WHERE id = $1 AND version = $2`,
			po.ID, po.Version, string(po.Status), po.Notes, po.ApprovedBy, po.ApprovedAt,
			po.SentAt, po.ReceivedDate, po.CancelledAt, po.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update purchase order: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("orden %s: %w", po.PONumber, domain.ErrConflict)
		}
		return upsertPOItems(ctx, tx, po)
	})
	if err != nil {
		return err
	}
	po.Version++
	return nil
}

func upsertPOItems(ctx context.Context, tx pgx.Tx, po *entity.PurchaseOrder) error {
	for i, it := range po.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, position, product_id, sku, quantity, received_quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET received_quantity = EXCLUDED.received_quantity`,
			it.ID, po.ID, i, it.ProductID, it.SKU, it.Quantity, it.ReceivedQuantity, it.UnitCost,
		)
		if err != nil {
			return fmt.Errorf("upsert purchase order item %s: %w", it.ID, err)
		}
		for _, key := range it.Receipts {
			_, err := tx.Exec(ctx, `
				INSERT INTO purchase_order_receipts (item_id, receipt_key) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, it.ID, key)
			if err != nil {
				return fmt.Errorf("insert purchase order receipt %s: %w", it.ID, err)
			}
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, po *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, sku, quantity, received_quantity, unit_cost
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY position`, po.ID)
	if err != nil {
		return fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.POItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.SKU, &it.Quantity, &it.ReceivedQuantity, &it.UnitCost); err != nil {
			return fmt.Errorf("scan purchase order item: %w", err)
		}
		po.Items = append(po.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	return r.loadReceipts(ctx, po)
}

func (r *PurchaseOrderRepo) loadReceipts(ctx context.Context, po *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT rc.item_id, rc.receipt_key
		FROM purchase_order_receipts rc
		JOIN purchase_order_items it ON it.id = rc.item_id
		WHERE it.purchase_order_id = $1
		ORDER BY rc.applied_at, rc.receipt_key`, po.ID)
	if err != nil {
		return fmt.Errorf("list purchase order receipts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var itemID, key string
		if err := rows.Scan(&itemID, &key); err != nil {
			return fmt.Errorf("scan purchase order receipt: %w", err)
		}
		if it := po.Item(itemID); it != nil {
			it.Receipts = append(it.Receipts, key)
		}
	}
	return rows.Err()
}

// Delete elimina la orden (las líneas caen en cascada).
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("orden %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List órdenes más recientes primero, opcionalmente filtradas por estado.
func (r *PurchaseOrderRepo) List(ctx context.Context, status entity.POStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+poColumns+` FROM purchase_orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY po_number DESC LIMIT $2 OFFSET $3`, string(status), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		if err := r.loadItems(ctx, po); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ListNumbers números de orden del año.
func (r *PurchaseOrderRepo) ListNumbers(ctx context.Context, year int) ([]string, error) {
	return listNumbers(ctx, r.q, `SELECT po_number FROM purchase_orders WHERE po_number LIKE $1`,
		yearPattern(inventory.PrefixPurchaseOrder, year))
}

func listNumbers(ctx context.Context, q Querier, query, pattern string) ([]string, error) {
	rows, err := q.Query(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("list document numbers: %w", err)
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan document number: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
