// Package memrepo implementa los puertos de repository en memoria para tests de casos de uso.
package memrepo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/internal/domain"
	"github.com/jhoicas/myshop-api/internal/domain/entity"
	"github.com/jhoicas/myshop-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository     = (*Categories)(nil)
	_ repository.ProductRepository      = (*Products)(nil)
	_ repository.ProductGroupRepository = (*ProductGroups)(nil)
	_ repository.UserRepository         = (*Users)(nil)
	_ ports.UnitOfWork                  = (*UnitOfWork)(nil)
)

// ErrInjected error de persistencia simulado vía FailNext.
var ErrInjected = errors.New("memrepo: fallo inyectado")

// failer permite forzar que la próxima escritura falle.
type failer struct {
	fail bool
}

// FailNext hace que la próxima escritura devuelva ErrInjected.
func (f *failer) FailNext() { f.fail = true }

func (f *failer) check() error {
	if f.fail {
		f.fail = false
		return ErrInjected
	}
	return nil
}

// ── Categories ────────────────────────────────────────────────────────────────

// Categories repositorio de categorías en memoria.
type Categories struct {
	failer
	mu    sync.Mutex
	items map[string]entity.Category
}

func NewCategories(seed ...*entity.Category) *Categories {
	r := &Categories{items: make(map[string]entity.Category)}
	for _, c := range seed {
		r.items[c.ID] = *c
	}
	return r
}

func (r *Categories) List(ctx context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.Category, 0, len(r.items))
	for _, c := range r.items {
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *Categories) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *Categories) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *Categories) Create(ctx context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	if _, ok := r.items[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.items[c.ID] = *c
	return nil
}

func (r *Categories) Update(ctx context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	r.items[c.ID] = *c
	return nil
}

func (r *Categories) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	delete(r.items, id)
	return nil
}

// ── Products ──────────────────────────────────────────────────────────────────

// Products repositorio de productos en memoria. Si groups no es nil, Delete borra los vínculos en cascada.
type Products struct {
	failer
	mu     sync.Mutex
	items  map[string]entity.Product
	order  []string
	groups *ProductGroups
}

func NewProducts(seed ...*entity.Product) *Products {
	r := &Products{items: make(map[string]entity.Product)}
	for _, p := range seed {
		r.items[p.ID] = *p
		r.order = append(r.order, p.ID)
	}
	return r
}

// CascadeTo enlaza el repositorio de grupos para borrar vínculos al eliminar un producto.
func (r *Products) CascadeTo(groups *ProductGroups) { r.groups = groups }

func (r *Products) List(ctx context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.items[id]
		list = append(list, &p)
	}
	return list, nil
}

func (r *Products) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.items[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *Products) Create(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	if _, ok := r.items[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.items[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *Products) Update(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	r.items[p.ID] = *p
	return nil
}

func (r *Products) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if err := r.check(); err != nil {
		r.mu.Unlock()
		return err
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	if r.groups != nil {
		r.groups.dropProduct(id)
	}
	return nil
}

// ── ProductGroups ─────────────────────────────────────────────────────────────

// ProductGroups repositorio de grupos en memoria; guarda copias profundas de los vínculos.
type ProductGroups struct {
	failer
	mu    sync.Mutex
	items map[string]entity.ProductGroup
	order []string
}

func NewProductGroups(seed ...*entity.ProductGroup) *ProductGroups {
	r := &ProductGroups{items: make(map[string]entity.ProductGroup)}
	for _, g := range seed {
		r.items[g.ID] = cloneGroup(*g)
		r.order = append(r.order, g.ID)
	}
	return r
}

func cloneGroup(g entity.ProductGroup) entity.ProductGroup {
	g.Products = append([]entity.ProductGroupProduct(nil), g.Products...)
	return g
}

func (r *ProductGroups) List(ctx context.Context) ([]*entity.ProductGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.ProductGroup, 0, len(r.order))
	for _, id := range r.order {
		g := cloneGroup(r.items[id])
		list = append(list, &g)
	}
	return list, nil
}

func (r *ProductGroups) GetByID(ctx context.Context, id string) (*entity.ProductGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.items[id]; ok {
		g = cloneGroup(g)
		return &g, nil
	}
	return nil, nil
}

func (r *ProductGroups) GetByName(ctx context.Context, name string) (*entity.ProductGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.items {
		if strings.EqualFold(g.Name, name) {
			g = cloneGroup(g)
			return &g, nil
		}
	}
	return nil, nil
}

func (r *ProductGroups) Create(ctx context.Context, g *entity.ProductGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	if _, ok := r.items[g.ID]; ok {
		return domain.ErrDuplicate
	}
	r.items[g.ID] = cloneGroup(*g)
	r.order = append(r.order, g.ID)
	return nil
}

func (r *ProductGroups) Update(ctx context.Context, g *entity.ProductGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	r.items[g.ID] = cloneGroup(*g)
	return nil
}

func (r *ProductGroups) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ProductGroups) dropProduct(productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.items {
		if g.RemoveProduct(productID) {
			r.items[id] = g
		}
	}
}

// ── Users ─────────────────────────────────────────────────────────────────────

// Users repositorio de usuarios en memoria.
type Users struct {
	failer
	mu    sync.Mutex
	items map[string]entity.User
}

func NewUsers(seed ...*entity.User) *Users {
	r := &Users{items: make(map[string]entity.User)}
	for _, u := range seed {
		r.items[u.ID] = *u
	}
	return r
}

func (r *Users) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.items[id]; ok && !u.IsDeleted {
		return &u, nil
	}
	return nil, nil
}

// Raw devuelve el usuario aunque esté eliminado (aserciones en tests).
func (r *Users) Raw(id string) (entity.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	return u, ok
}

func (r *Users) GetByPhone(ctx context.Context, phone string, includeDeleted bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *entity.User
	for _, u := range r.items {
		if u.PhoneNumber != phone {
			continue
		}
		u := u
		if !u.IsDeleted {
			return &u, nil
		}
		if !includeDeleted {
			continue
		}
		if best == nil || (u.DeletedAt != nil && best.DeletedAt != nil && u.DeletedAt.After(*best.DeletedAt)) {
			best = &u
		}
	}
	return best, nil
}

func (r *Users) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	u, err := r.GetByPhone(ctx, phone, false)
	return u != nil, err
}

func (r *Users) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	for _, existing := range r.items {
		if existing.PhoneNumber == u.PhoneNumber && !existing.IsDeleted {
			return domain.ErrDuplicate
		}
	}
	r.items[u.ID] = *u
	return nil
}

func (r *Users) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(); err != nil {
		return err
	}
	r.items[u.ID] = *u
	return nil
}

// ── UnitOfWork ────────────────────────────────────────────────────────────────

type uowKey struct{}

// UnitOfWork registra Begin/Commit/Rollback sin persistir nada; respeta el anidamiento por ctx.
type UnitOfWork struct {
	mu        sync.Mutex
	Begins    int
	Commits   int
	Rollbacks int
	// FailCommit hace que el próximo Commit de nivel externo falle (y haga rollback).
	FailCommit bool
}

type uowState struct {
	depth int
	done  bool
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if st, ok := ctx.Value(uowKey{}).(*uowState); ok && !st.done {
		st.depth++
		return ctx, nil
	}
	u.Begins++
	return context.WithValue(ctx, uowKey{}, &uowState{}), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	st, ok := ctx.Value(uowKey{}).(*uowState)
	if !ok || st.done {
		return errors.New("memrepo: commit sin transacción")
	}
	if st.depth > 0 {
		st.depth--
		return nil
	}
	st.done = true
	if u.FailCommit {
		u.FailCommit = false
		u.Rollbacks++
		return ErrInjected
	}
	u.Commits++
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	st, ok := ctx.Value(uowKey{}).(*uowState)
	if !ok || st.done {
		return nil
	}
	if st.depth > 0 {
		st.depth--
		return nil
	}
	st.done = true
	u.Rollbacks++
	return nil
}

func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) { return 0, nil }

func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return ports.RunInTx(ctx, u, fn)
}
