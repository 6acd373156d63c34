package store

import (
	"context"
	"sort"
	"sync"

	"shopmall_back_end/internal/models"
)

// Implémentations en mémoire, utilisées par les tests des handlers.
// Elles respectent le même contrat que les versions ScyllaDB, y compris
// l'unicité sku/email garantie au niveau du store.

type MemoryProducts struct {
	mu       sync.Mutex
	byID     map[string]models.Product
	skuOwner map[string]string // sku → id
}

func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{
		byID:     make(map[string]models.Product),
		skuOwner: make(map[string]string),
	}
}

func (m *MemoryProducts) ListAll(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var products []models.Product
	for _, p := range m.byID {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (m *MemoryProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryProducts) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.skuOwner[sku]
	if !ok {
		return nil, ErrNotFound
	}
	p := m.byID[id]
	return &p, nil
}

func (m *MemoryProducts) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var products []models.Product
	for _, p := range m.byID {
		if p.Category == category {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (m *MemoryProducts) Create(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.skuOwner[p.SKU]; taken {
		return ErrConflict
	}
	m.skuOwner[p.SKU] = p.ID
	m.byID[p.ID] = *p
	return nil
}

func (m *MemoryProducts) Replace(ctx context.Context, prev *models.Product, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.SKU != prev.SKU {
		if _, taken := m.skuOwner[p.SKU]; taken {
			return ErrConflict
		}
		delete(m.skuOwner, prev.SKU)
		m.skuOwner[p.SKU] = p.ID
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *MemoryProducts) Delete(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.byID, id)
	delete(m.skuOwner, p.SKU)
	return &p, nil
}

type MemoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
	idIndex map[string]string // id → email
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byEmail: make(map[string]models.User),
		idIndex: make(map[string]string),
	}
}

func (m *MemoryUsers) ListAll(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []models.User
	for _, u := range m.byEmail {
		users = append(users, u)
	}
	return users, nil
}

func (m *MemoryUsers) GetByID(ctx context.Context, id, emailHint string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := emailHint
	if email == "" {
		var ok bool
		email, ok = m.idIndex[id]
		if !ok {
			return nil, ErrNotFound
		}
	}
	u, ok := m.byEmail[email]
	if !ok || u.ID != id {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) Create(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[u.Email]; taken {
		return ErrConflict
	}
	m.byEmail[u.Email] = *u
	m.idIndex[u.ID] = u.Email
	return nil
}

func (m *MemoryUsers) Replace(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byEmail[u.Email] = *u
	m.idIndex[u.ID] = u.Email
	return nil
}

func (m *MemoryUsers) Delete(ctx context.Context, id, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byEmail[email]
	if !ok || u.ID != id {
		return ErrNotFound
	}
	delete(m.byEmail, email)
	delete(m.idIndex, id)
	return nil
}

type MemoryOrders struct {
	mu     sync.Mutex
	orders map[string]models.Order // id → commande
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{orders: make(map[string]models.Order)}
}

func (m *MemoryOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []models.Order
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *MemoryOrders) GetByID(ctx context.Context, id, userID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (m *MemoryOrders) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *MemoryOrders) Create(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[o.ID] = *o
	return nil
}

func (m *MemoryOrders) Replace(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[o.ID] = *o
	return nil
}

func (m *MemoryOrders) Delete(ctx context.Context, id, userID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	delete(m.orders, id)
	return &o, nil
}
