package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockTransferRepository define el puerto de persistencia para traslados y sus líneas.
type StockTransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	Update(ctx context.Context, transfer *entity.StockTransfer) error
	List(ctx context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error)
	ListNumbers(ctx context.Context, year int) ([]string, error)
}
