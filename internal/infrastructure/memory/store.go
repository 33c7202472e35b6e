// Package memory implementa el almacén transaccional en memoria. Se usa en pruebas y con
// STORE_DRIVER=memory. Los escritores se serializan con un mutex y cada transacción
// trabaja sobre una copia del estado que solo se publica si fn no devuelve error.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// errReadOnly escritura dentro de RunReadOnly.
var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

type state struct {
	seq          int64
	items        map[string]entity.Item
	stock        map[string]entity.Stock
	orders       map[string]orderRow
	requirements map[string]requirementRow
	transactions []entity.Transaction
}

// orderRow guarda la orden con su secuencia de inserción para ordenar listados.
type orderRow struct {
	seq int64
	po  entity.PurchaseOrder
}

type requirementRow struct {
	seq int64
	req entity.Requirement
}

func newState() *state {
	return &state{
		items:        map[string]entity.Item{},
		stock:        map[string]entity.Stock{},
		orders:       map[string]orderRow{},
		requirements: map[string]requirementRow{},
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

func (s *state) clone() *state {
	c := &state{
		seq:          s.seq,
		items:        make(map[string]entity.Item, len(s.items)),
		stock:        make(map[string]entity.Stock, len(s.stock)),
		orders:       make(map[string]orderRow, len(s.orders)),
		requirements: make(map[string]requirementRow, len(s.requirements)),
		transactions: make([]entity.Transaction, len(s.transactions)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = orderRow{seq: v.seq, po: copyOrder(v.po)}
	}
	for k, v := range s.requirements {
		c.requirements[k] = requirementRow{seq: v.seq, req: copyRequirement(v.req)}
	}
	copy(c.transactions, s.transactions)
	return c
}

// Store almacén en memoria.
type Store struct {
	mu    sync.RWMutex
	state *state

	usersMu sync.RWMutex
	users   map[string]entity.User
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), users: map[string]entity.User{}}
}

// Run ejecuta fn con repositorios sobre una copia del estado; si fn termina sin error
// la copia reemplaza al estado publicado.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(reposFor(work, false)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// RunReadOnly ejecuta fn sobre el estado publicado; las escrituras fallan.
func (s *Store) RunReadOnly(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reposFor(s.state, true))
}

// Users repositorio de usuarios (fuera de la unidad de trabajo del inventario).
func (s *Store) Users() *UserRepo {
	return &UserRepo{store: s}
}

func reposFor(st *state, readOnly bool) inventory.Repos {
	return inventory.Repos{
		Items:          &itemRepo{st: st, readOnly: readOnly},
		Stock:          &stockRepo{st: st, readOnly: readOnly},
		PurchaseOrders: &purchaseOrderRepo{st: st, readOnly: readOnly},
		Requirements:   &requirementRepo{st: st, readOnly: readOnly},
		Transactions:   &transactionRepo{st: st, readOnly: readOnly},
	}
}

func copyOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	po.Invoices = append([]entity.Invoice(nil), po.Invoices...)
	if po.ExpectedDeliveryDate != nil {
		d := *po.ExpectedDeliveryDate
		po.ExpectedDeliveryDate = &d
	}
	if po.ReceivedAt != nil {
		t := *po.ReceivedAt
		po.ReceivedAt = &t
	}
	return po
}

func copyRequirement(r entity.Requirement) entity.Requirement {
	r.Lines = append([]entity.RequirementLine(nil), r.Lines...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		r.CompletedAt = &t
	}
	return r
}

// page aplica limit/offset sobre n elementos; limit <= 0 = sin límite.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
