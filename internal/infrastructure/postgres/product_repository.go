package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// El stock por bodega vive en product_locations y el kardex en stock_movements.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, category, stock, min_stock, price, cost, version, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Stock, &p.MinStock,
		&p.Price, &p.Cost, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto con versión 1. Stock inicial y ubicaciones se insertan tal cual.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO products (` + productColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)`
		_, err := tx.Exec(ctx, query,
			product.ID, product.SKU, product.Name, product.Category, product.Stock, product.MinStock,
			product.Price, product.Cost, product.CreatedAt, product.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert product: %w", err)
		}
		if err := writeLocations(ctx, tx, product); err != nil {
			return err
		}
		if err := insertMovements(ctx, tx, product.History); err != nil {
			return err
		}
		product.Version = 1
		return nil
	})
}

// GetByID obtiene un producto con ubicaciones y kardex; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadDetails(ctx, []*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// List productos ordenados por SKU con su kardex; limit <= 0 = todos.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY sku LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadDetails carga ubicaciones y kardex de varios productos con dos consultas.
func (r *ProductRepo) loadDetails(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	locRows, err := r.q.Query(ctx,
		`SELECT product_id, warehouse_id, quantity FROM product_locations WHERE product_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("list product locations: %w", err)
	}
	for locRows.Next() {
		var productID, warehouseID string
		var qty decimal.Decimal
		if err := locRows.Scan(&productID, &warehouseID, &qty); err != nil {
			locRows.Close()
			return fmt.Errorf("scan product location: %w", err)
		}
		p := byID[productID]
		if p.StockByLocation == nil {
			p.StockByLocation = make(map[string]decimal.Decimal)
		}
		p.StockByLocation[warehouseID] = qty
	}
	locRows.Close()
	if err := locRows.Err(); err != nil {
		return err
	}

	movRows, err := r.q.Query(ctx, `
		SELECT id, product_id, warehouse_id, date, type, quantity_change, new_stock, reference, notes, actor
		FROM stock_movements WHERE product_id = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return fmt.Errorf("list stock movements: %w", err)
	}
	defer movRows.Close()
	for movRows.Next() {
		var m entity.StockMovement
		if err := movRows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Date, &m.Type,
			&m.QuantityChange, &m.NewStock, &m.Reference, &m.Notes, &m.Actor); err != nil {
			return fmt.Errorf("scan stock movement: %w", err)
		}
		p := byID[m.ProductID]
		p.History = append(p.History, m)
	}
	return movRows.Err()
}

// Save actualiza stock, costo, datos maestros y ubicaciones si la versión coincide, e inserta
// los movimientos nuevos del kardex. Todo en una sola transacción (o savepoint).
func (r *ProductRepo) Save(ctx context.Context, product *entity.Product, newMovements []entity.StockMovement) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE products
			SET name = $3, category = $4, stock = $5, min_stock = $6, price = $7, cost = $8,
			    version = version + 1, updated_at = $9
			WHERE id = $1 AND version = $2`,
			product.ID, product.Version, product.Name, product.Category, product.Stock,
			product.MinStock, product.Price, product.Cost, product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return r.missOrConflict(ctx, tx, product)
		}
		if err := writeLocations(ctx, tx, product); err != nil {
			return err
		}
		return insertMovements(ctx, tx, newMovements)
	})
	if err != nil {
		return err
	}
	product.Version++
	return nil
}

func (r *ProductRepo) missOrConflict(ctx context.Context, tx pgx.Tx, product *entity.Product) error {
	var current int64
	err := tx.QueryRow(ctx, `SELECT version FROM products WHERE id = $1`, product.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("producto %s: %w", product.ID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get product version: %w", err)
	}
	return fmt.Errorf("producto %s versión %d (actual %d): %w", product.ID, product.Version, current, domain.ErrConflict)
}

// writeLocations reemplaza las filas de product_locations del producto.
func writeLocations(ctx context.Context, tx pgx.Tx, product *entity.Product) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_locations WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("delete product locations: %w", err)
	}
	for wh, qty := range product.StockByLocation {
		_, err := tx.Exec(ctx,
			`INSERT INTO product_locations (product_id, warehouse_id, quantity) VALUES ($1, $2, $3)`,
			product.ID, wh, qty)
		if err != nil {
			return fmt.Errorf("insert product location %s: %w", wh, err)
		}
	}
	return nil
}

func insertMovements(ctx context.Context, tx pgx.Tx, movements []entity.StockMovement) error {
	for _, m := range movements {
		_, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (id, product_id, warehouse_id, date, type, quantity_change, new_stock, reference, notes, actor)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			m.ID, m.ProductID, m.WarehouseID, m.Date, string(m.Type), m.QuantityChange,
			m.NewStock, m.Reference, m.Notes, m.Actor,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert stock movement: %w", err)
		}
	}
	return nil
}
