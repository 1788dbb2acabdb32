package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.TxRepositories) error) error
}

// Locker serializa las operaciones sobre una misma entidad (un escritor por clave).
// La adquisición respeta ctx: nunca bloquea indefinidamente.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Notifier recibe los eventos del motor. La entrega (correo, push, colas) es del adaptador;
// un error de entrega se registra y no revierte el movimiento.
type Notifier interface {
	LowStockCrossed(ctx context.Context, product *entity.Product, warehouseID string) error
	LotExpiring(ctx context.Context, lot *entity.Lot) error
	TransferCompleted(ctx context.Context, transfer *entity.StockTransfer) error
}

// Clock fuente de la hora actual (inyectable en pruebas).
type Clock func() time.Time

// Claves de bloqueo por entidad.
func poLockKey(id string) string            { return "po:" + id }
func transferLockKey(id string) string      { return "transfer:" + id }
func productLockKey(id string) string       { return "product:" + id }
func countLockKey(id string) string         { return "count:" + id }
func countScopeLockKey(scope string) string { return "count-scope:" + scope }
func lotLockKey(id string) string           { return "lot:" + id }
func seqLockKey(prefix string) string       { return "seq:" + prefix }
