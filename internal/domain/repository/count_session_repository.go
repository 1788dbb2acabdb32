package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// CountSessionRepository define el puerto de persistencia para sesiones de conteo físico.
type CountSessionRepository interface {
	Create(ctx context.Context, session *entity.CountSession) error
	GetByID(ctx context.Context, id string) (*entity.CountSession, error)
	Update(ctx context.Context, session *entity.CountSession) error
	// FindOpen sesión abierta para la bodega ("" = global); (nil, nil) si no hay.
	FindOpen(ctx context.Context, warehouseID string) (*entity.CountSession, error)
}
