package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountStatus estado de una sesión de conteo físico.
type CountStatus string

const (
	CountStatusOpen      CountStatus = "OPEN"
	CountStatusFinished  CountStatus = "FINISHED"
	CountStatusCancelled CountStatus = "CANCELLED"
)

// CountLine línea de conteo: InitialStock se toma al abrir la sesión (snapshot).
// Adjusted: ya se aplicó la corrección. Drifted: el stock cambió durante el conteo y no se corrigió.
type CountLine struct {
	ProductID    string
	SKU          string
	Name         string
	InitialStock decimal.Decimal
	CountedStock decimal.Decimal
	Counted      bool
	Adjusted     bool
	Drifted      bool
}

// Diff = contado - inicial (cero si la línea no se contó).
func (l *CountLine) Diff() decimal.Decimal {
	if !l.Counted {
		return decimal.Zero
	}
	return l.CountedStock.Sub(l.InitialStock)
}

// CountSession sesión de conteo físico de un solo operador.
// WarehouseID vacío = conteo sobre el stock agregado.
type CountSession struct {
	ID          string
	WarehouseID string
	Status      CountStatus
	StartedBy   string
	StartedAt   time.Time
	FinishedBy  string
	FinishedAt  *time.Time
	Lines       []CountLine
	Version     int64
	UpdatedAt   time.Time
}

// IsOpen indica si la sesión admite conteos.
func (s *CountSession) IsOpen() bool {
	return s.Status == CountStatusOpen
}

// Scope clave de exclusión: una sola sesión abierta por bodega (o global).
func (s *CountSession) Scope() string {
	if s.WarehouseID == "" {
		return "global"
	}
	return s.WarehouseID
}

func (s *CountSession) checkOpen(next CountStatus) error {
	if s.Status != CountStatusOpen {
		return transitionError("sesión de conteo", string(s.Status), string(next))
	}
	return nil
}

// Record registra la cantidad contada de un producto. Volver a registrar sobrescribe.
func (s *CountSession) Record(productID string, counted decimal.Decimal, now time.Time) error {
	if err := s.checkOpen(CountStatusOpen); err != nil {
		return err
	}
	if counted.LessThan(decimal.Zero) {
		return errInvalidQuantity
	}
	line := s.Line(productID)
	if line == nil {
		return errCountLineNotFound
	}
	line.CountedStock = counted
	line.Counted = true
	s.UpdatedAt = now
	return nil
}

// NextPending devuelve la siguiente línea sin contar en el orden fijo de la sesión.
func (s *CountSession) NextPending() *CountLine {
	for i := range s.Lines {
		if !s.Lines[i].Counted {
			return &s.Lines[i]
		}
	}
	return nil
}

// Line busca la línea de un producto.
func (s *CountSession) Line(productID string) *CountLine {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			return &s.Lines[i]
		}
	}
	return nil
}

// Finish OPEN -> FINISHED.
func (s *CountSession) Finish(actor string, now time.Time) error {
	if err := s.checkOpen(CountStatusFinished); err != nil {
		return err
	}
	s.Status = CountStatusFinished
	s.FinishedBy = actor
	s.FinishedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel OPEN -> CANCELLED sin tocar stock.
func (s *CountSession) Cancel(now time.Time) error {
	if err := s.checkOpen(CountStatusCancelled); err != nil {
		return err
	}
	s.Status = CountStatusCancelled
	s.UpdatedAt = now
	return nil
}

// Clone copia la sesión y sus líneas.
func (s *CountSession) Clone() *CountSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Lines = append([]CountLine(nil), s.Lines...)
	return &c
}
