package entity

import (
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

var (
	errInvalidQuantity = fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	errLotInsufficient = fmt.Errorf("%w: cantidad disponible del lote", domain.ErrInsufficientStock)
	errInvalidApprover = fmt.Errorf("%w: approved_by requerido", domain.ErrInvalidInput)

	errCountLineNotFound = fmt.Errorf("%w: producto fuera de la sesión de conteo", domain.ErrNotFound)
)

// transitionError envuelve ErrInvalidTransition con el estado origen y destino.
func transitionError(entity, from, to string) error {
	return fmt.Errorf("%w: %s %s -> %s", domain.ErrInvalidTransition, entity, from, to)
}
