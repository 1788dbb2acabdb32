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

var _ repository.CountSessionRepository = (*CountSessionRepo)(nil)

// CountSessionRepo sesiones de conteo (cabecera + count_lines) sobre PostgreSQL.
type CountSessionRepo struct {
	q Querier
}

// NewCountSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountSessionRepository(q Querier) *CountSessionRepo {
	return &CountSessionRepo{q: q}
}

const countColumns = `id, warehouse_id, status, started_by, started_at, finished_by, finished_at, version, updated_at`

func scanCountSession(row pgx.Row) (*entity.CountSession, error) {
	var s entity.CountSession
	err := row.Scan(&s.ID, &s.WarehouseID, &s.Status, &s.StartedBy, &s.StartedAt,
		&s.FinishedBy, &s.FinishedAt, &s.Version, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la sesión y su snapshot. El índice parcial uq_count_sessions_open
// rechaza una segunda sesión abierta en la misma bodega.
func (r *CountSessionRepo) Create(ctx context.Context, s *entity.CountSession) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO count_sessions (`+countColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8)`,
			s.ID, s.WarehouseID, string(s.Status), s.StartedBy, s.StartedAt, s.FinishedBy, s.FinishedAt, s.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("sesión abierta en %s: %w", s.Scope(), domain.ErrConflict)
			}
			return fmt.Errorf("insert count session: %w", err)
		}
		return upsertCountLines(ctx, tx, s)
	})
	if err != nil {
		return err
	}
	s.Version = 1
	return nil
}

// GetByID obtiene la sesión con sus líneas; (nil, nil) si no existe.
func (r *CountSessionRepo) GetByID(ctx context.Context, id string) (*entity.CountSession, error) {
	return r.getOne(ctx, `SELECT `+countColumns+` FROM count_sessions WHERE id = $1`, id)
}

// FindOpen sesión abierta de la bodega ("" = global).
func (r *CountSessionRepo) FindOpen(ctx context.Context, warehouseID string) (*entity.CountSession, error) {
	return r.getOne(ctx, `SELECT `+countColumns+` FROM count_sessions
		WHERE warehouse_id = $1 AND status = 'OPEN'`, warehouseID)
}

func (r *CountSessionRepo) getOne(ctx context.Context, query, arg string) (*entity.CountSession, error) {
	s, err := scanCountSession(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count session: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, sku, name, initial_stock, counted_stock, counted, adjusted, drifted
		FROM count_lines WHERE session_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("list count lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.CountLine
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.InitialStock, &l.CountedStock,
			&l.Counted, &l.Adjusted, &l.Drifted); err != nil {
			return nil, fmt.Errorf("scan count line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Update guarda estado y líneas si la versión coincide.
func (r *CountSessionRepo) Update(ctx context.Context, s *entity.CountSession) error {
	err := inTx(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE count_sessions
			SET status = $3, finished_by = $4, finished_at = $5, version = version + 1, updated_at = $6
			WHERE id = $1 AND version = $2`,
			s.ID, s.Version, string(s.Status), s.FinishedBy, s.FinishedAt, s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update count session: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("sesión %s: %w", s.ID, domain.ErrConflict)
		}
		return upsertCountLines(ctx, tx, s)
	})
	if err != nil {
		return err
	}
	s.Version++
	return nil
}

func upsertCountLines(ctx context.Context, tx pgx.Tx, s *entity.CountSession) error {
	for i, l := range s.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO count_lines (session_id, position, product_id, sku, name, initial_stock,
			                         counted_stock, counted, adjusted, drifted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (session_id, product_id) DO UPDATE SET
				counted_stock = EXCLUDED.counted_stock,
				counted = EXCLUDED.counted,
				adjusted = EXCLUDED.adjusted,
				drifted = EXCLUDED.drifted`,
			s.ID, i, l.ProductID, l.SKU, l.Name, l.InitialStock, l.CountedStock, l.Counted, l.Adjusted, l.Drifted,
		)
		if err != nil {
			return fmt.Errorf("upsert count line %s: %w", l.ProductID, err)
		}
	}
	return nil
}
