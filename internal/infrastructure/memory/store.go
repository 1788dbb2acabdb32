// Package memory implementa los repositorios en memoria (modo por defecto y pruebas).
// Cada lectura devuelve copias; las escrituras comparan Version igual que el adaptador SQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// Store guarda todas las colecciones. mu protege los mapas; txMu serializa las transacciones
// y las escrituras fuera de ellas para que un rollback no pise cambios ajenos.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	products   map[string]*entity.Product
	lots       map[string]*entity.Lot
	orders     map[string]*entity.PurchaseOrder
	transfers  map[string]*entity.StockTransfer
	counts     map[string]*entity.CountSession
	warehouses map[string]*entity.Warehouse
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		lots:       make(map[string]*entity.Lot),
		orders:     make(map[string]*entity.PurchaseOrder),
		transfers:  make(map[string]*entity.StockTransfer),
		counts:     make(map[string]*entity.CountSession),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

// write ejecuta fn con el mapa bloqueado. Fuera de tx además toma txMu.
func (s *Store) write(inTx bool, fn func() error) error {
	if !inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

type snapshot struct {
	products  map[string]*entity.Product
	lots      map[string]*entity.Lot
	orders    map[string]*entity.PurchaseOrder
	transfers map[string]*entity.StockTransfer
	counts    map[string]*entity.CountSession
}

func cloneMap[T any](in map[string]*T, clone func(*T) *T) map[string]*T {
	out := make(map[string]*T, len(in))
	for k, v := range in {
		out[k] = clone(v)
	}
	return out
}

func cloneLot(l *entity.Lot) *entity.Lot {
	c := *l
	return &c
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		products:  cloneMap(s.products, (*entity.Product).Clone),
		lots:      cloneMap(s.lots, cloneLot),
		orders:    cloneMap(s.orders, (*entity.PurchaseOrder).Clone),
		transfers: cloneMap(s.transfers, (*entity.StockTransfer).Clone),
		counts:    cloneMap(s.counts, (*entity.CountSession).Clone),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.lots = snap.lots
	s.orders = snap.orders
	s.transfers = snap.transfers
	s.counts = snap.counts
}

// Repositories repositorios fuera de transacción.
func (s *Store) Repositories() repository.TxRepositories {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.TxRepositories {
	return repository.TxRepositories{
		Products:       &ProductRepo{s: s, inTx: inTx},
		Lots:           &LotRepo{s: s, inTx: inTx},
		PurchaseOrders: &PurchaseOrderRepo{s: s, inTx: inTx},
		Transfers:      &StockTransferRepo{s: s, inTx: inTx},
		Counts:         &CountSessionRepo{s: s, inTx: inTx},
	}
}

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() *WarehouseRepo {
	return &WarehouseRepo{s: s}
}

// TxRunner ejecuta transacciones sobre el Store: una a la vez, con foto previa para el rollback.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn; si devuelve error o entra en pánico restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxRepositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			r.s.restore(snap)
			panic(p)
		}
		if err != nil {
			r.s.restore(snap)
		}
	}()
	return fn(r.s.repos(true))
}
