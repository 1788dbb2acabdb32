package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Stock y Cost solo cambian vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con stock y costo en cero.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y name requeridos", domain.ErrInvalidInput)
	}
	if in.MinStock.LessThan(decimal.Zero) || in.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: min_stock y price no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		Stock:     decimal.Zero,
		MinStock:  in.MinStock,
		Price:     in.Price,
		Cost:      decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto con su kardex (más reciente primero).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProductDetailResponse(product), nil
}

// Update actualiza datos del catálogo. No permite modificar Cost ni Stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.MinStock != nil {
		if in.MinStock.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: min_stock negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *in.MinStock
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: price negativo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Save(ctx, product, nil); err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.NewProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// VerifyLedger reproduce el kardex del producto y reporta si cumple la suma acumulada.
func (uc *ProductUseCase) VerifyLedger(ctx context.Context, id string) (*dto.LedgerCheckResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.LedgerCheckResponse{ProductID: product.ID, Movements: len(product.History), Valid: true}
	if err := inventory.VerifyLedger(product); err != nil {
		out.Valid = false
		out.Error = err.Error()
	}
	return out, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}
