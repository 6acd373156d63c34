package store

import (
	"context"
	"sort"

	"github.com/gocql/gocql"

	"shopmall_back_end/internal/models"
)

// scyllaProducts persiste les produits dans trois tables :
//   - products_by_category : les enregistrements, partitionnés par catégorie
//   - products_by_id       : index id → catégorie (évite le scan complet
//     quand l'appelant n'a que l'id)
//   - product_skus         : réservation des SKU via transaction légère,
//     l'unicité est garantie par le stockage et non par un
//     check-then-insert applicatif
type scyllaProducts struct {
	session *gocql.Session
}

func NewScyllaProducts(session *gocql.Session) ProductStore {
	return &scyllaProducts{session: session}
}

const productColumns = `category, id, sku, name, price, image, description, stock, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (models.Product, error) {
	var p models.Product
	err := scan(&p.Category, &p.ID, &p.SKU, &p.Name, &p.Price, &p.Image,
		&p.Description, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *scyllaProducts) ListAll(ctx context.Context) ([]models.Product, error) {
	iter := s.session.Query(`SELECT ` + productColumns + ` FROM products_by_category`).
		WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.Category, &p.ID, &p.SKU, &p.Name, &p.Price, &p.Image,
		&p.Description, &p.Stock, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	// Le tri par date de création se fait en mémoire : Scylla ne trie pas
	// au-delà d'une partition.
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *scyllaProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var category string
	err := s.session.Query(`SELECT category FROM products_by_id WHERE id = ?`, id).
		WithContext(ctx).Scan(&category)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(s.session.Query(
		`SELECT `+productColumns+` FROM products_by_category WHERE category = ? AND id = ?`,
		category, id).WithContext(ctx).Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *scyllaProducts) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var id string
	err := s.session.Query(`SELECT id FROM product_skus WHERE sku = ?`, sku).
		WithContext(ctx).Scan(&id)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *scyllaProducts) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	iter := s.session.Query(
		`SELECT `+productColumns+` FROM products_by_category WHERE category = ?`, category).
		WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.Category, &p.ID, &p.SKU, &p.Name, &p.Price, &p.Image,
		&p.Description, &p.Stock, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// claimSKU réserve un SKU de façon atomique. Retourne ErrConflict si un
// autre produit le détient déjà.
func (s *scyllaProducts) claimSKU(ctx context.Context, sku, id string) error {
	applied, err := s.session.Query(
		`INSERT INTO product_skus (sku, id) VALUES (?, ?) IF NOT EXISTS`, sku, id).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		return ErrConflict
	}
	return nil
}

func (s *scyllaProducts) releaseSKU(ctx context.Context, sku string) error {
	return s.session.Query(`DELETE FROM product_skus WHERE sku = ?`, sku).
		WithContext(ctx).Exec()
}

func (s *scyllaProducts) insertRow(ctx context.Context, p *models.Product) error {
	return s.session.Query(
		`INSERT INTO products_by_category (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Category, p.ID, p.SKU, p.Name, p.Price, p.Image, p.Description,
		p.Stock, p.CreatedAt, p.UpdatedAt).WithContext(ctx).Exec()
}

func (s *scyllaProducts) Create(ctx context.Context, p *models.Product) error {
	if err := s.claimSKU(ctx, p.SKU, p.ID); err != nil {
		return err
	}

	if err := s.insertRow(ctx, p); err != nil {
		// La réservation ne doit pas survivre à un insert raté.
		_ = s.releaseSKU(ctx, p.SKU)
		return err
	}

	return s.session.Query(
		`INSERT INTO products_by_id (id, category) VALUES (?, ?)`, p.ID, p.Category).
		WithContext(ctx).Exec()
}

// Replace écrit la nouvelle version du produit. prev est la version
// actuellement stockée : elle sert à migrer la réservation de SKU et la
// ligne de partition quand ces clés changent.
func (s *scyllaProducts) Replace(ctx context.Context, prev *models.Product, p *models.Product) error {
	if p.SKU != prev.SKU {
		if err := s.claimSKU(ctx, p.SKU, p.ID); err != nil {
			return err
		}
		if err := s.releaseSKU(ctx, prev.SKU); err != nil {
			return err
		}
	}

	if p.Category != prev.Category {
		// La catégorie est la clé de partition : changement = delete + insert.
		if err := s.session.Query(
			`DELETE FROM products_by_category WHERE category = ? AND id = ?`,
			prev.Category, prev.ID).WithContext(ctx).Exec(); err != nil {
			return err
		}
		if err := s.session.Query(
			`INSERT INTO products_by_id (id, category) VALUES (?, ?)`, p.ID, p.Category).
			WithContext(ctx).Exec(); err != nil {
			return err
		}
	}

	return s.insertRow(ctx, p)
}

func (s *scyllaProducts) Delete(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.session.Query(
		`DELETE FROM products_by_category WHERE category = ? AND id = ?`,
		p.Category, p.ID).WithContext(ctx).Exec(); err != nil {
		return nil, err
	}
	if err := s.session.Query(`DELETE FROM products_by_id WHERE id = ?`, id).
		WithContext(ctx).Exec(); err != nil {
		return nil, err
	}
	if err := s.releaseSKU(ctx, p.SKU); err != nil {
		return nil, err
	}
	return p, nil
}
