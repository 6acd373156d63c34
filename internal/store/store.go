package store

import (
	"context"
	"errors"
	"fmt"

	"shopmall_back_end/internal/database"
	"shopmall_back_end/internal/models"
)

// Erreurs sentinelles de la couche d'accès aux données. Les handlers les
// traduisent en 404/409 ; tout le reste remonte tel quel en 500.
var (
	ErrNotFound = errors.New("enregistrement introuvable")
	ErrConflict = errors.New("clé unique déjà utilisée")
)

// ProductStore expose les opérations sur la collection produits,
// partitionnée par catégorie.
type ProductStore interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Replace(ctx context.Context, prev *models.Product, p *models.Product) error
	Delete(ctx context.Context, id string) (*models.Product, error)
}

// UserStore expose les opérations sur la collection utilisateurs,
// partitionnée par email.
type UserStore interface {
	ListAll(ctx context.Context) ([]models.User, error)
	// GetByID résout l'email via la table d'index quand l'appelant
	// n'a pas la clé de partition sous la main.
	GetByID(ctx context.Context, id, emailHint string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Replace(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id, email string) error
}

// OrderStore expose les opérations sur la collection commandes,
// partitionnée par userId.
type OrderStore interface {
	ListAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id, userID string) (*models.Order, error)
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	Replace(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id, userID string) (*models.Order, error)
}

// --- Stores globaux, injectés au démarrage (remplacés en test) ---
var (
	Products ProductStore
	Users    UserStore
	Orders   OrderStore
)

// Init branche les implémentations ScyllaDB sur les sessions ouvertes
// par database.ConnectDatabases.
func Init() error {
	productsSession, err := database.GetProductsSession()
	if err != nil {
		return fmt.Errorf("session products: %v", err)
	}
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return fmt.Errorf("session users: %v", err)
	}
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return fmt.Errorf("session orders: %v", err)
	}

	Products = NewScyllaProducts(productsSession)
	Users = NewScyllaUsers(usersSession)
	Orders = NewScyllaOrders(ordersSession)
	return nil
}
