package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/gocql/gocql"

	"shopmall_back_end/internal/models"
)

// scyllaOrders persiste les commandes dans orders_by_user, partitionnée
// par user_id. Les lignes de commande, l'adresse de livraison et les infos
// de paiement sont stockées en JSON dans des colonnes text.
type scyllaOrders struct {
	session *gocql.Session
}

func NewScyllaOrders(session *gocql.Session) OrderStore {
	return &scyllaOrders{session: session}
}

const orderColumns = `user_id, id, items, total_amount, tax, shipping_fee, status, shipping_address, payment_info, created_at, updated_at`

type orderRow struct {
	itemsJSON   string
	addressJSON string
	paymentJSON string
}

func decodeOrder(o *models.Order, row orderRow) error {
	if err := json.Unmarshal([]byte(row.itemsJSON), &o.Items); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(row.addressJSON), &o.ShippingAddress); err != nil {
		return err
	}
	if row.paymentJSON != "" {
		o.PaymentInfo = &models.PaymentInfo{}
		if err := json.Unmarshal([]byte(row.paymentJSON), o.PaymentInfo); err != nil {
			return err
		}
	}
	return nil
}

func encodeOrder(o *models.Order) (orderRow, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orderRow{}, err
	}
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return orderRow{}, err
	}
	var payment []byte
	if o.PaymentInfo != nil {
		if payment, err = json.Marshal(o.PaymentInfo); err != nil {
			return orderRow{}, err
		}
	}
	return orderRow{
		itemsJSON:   string(items),
		addressJSON: string(address),
		paymentJSON: string(payment),
	}, nil
}

func (s *scyllaOrders) scanOrders(iter *gocql.Iter) ([]models.Order, error) {
	var orders []models.Order
	var o models.Order
	var row orderRow
	for iter.Scan(&o.UserID, &o.ID, &row.itemsJSON, &o.TotalAmount, &o.Tax,
		&o.ShippingFee, &o.Status, &row.addressJSON, &row.paymentJSON,
		&o.CreatedAt, &o.UpdatedAt) {
		if err := decodeOrder(&o, row); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		o = models.Order{}
		row = orderRow{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *scyllaOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	iter := s.session.Query(`SELECT ` + orderColumns + ` FROM orders_by_user`).
		WithContext(ctx).Iter()
	return s.scanOrders(iter)
}

func (s *scyllaOrders) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	iter := s.session.Query(
		`SELECT `+orderColumns+` FROM orders_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()
	return s.scanOrders(iter)
}

func (s *scyllaOrders) GetByID(ctx context.Context, id, userID string) (*models.Order, error) {
	var o models.Order
	var row orderRow
	err := s.session.Query(
		`SELECT `+orderColumns+` FROM orders_by_user WHERE user_id = ? AND id = ?`,
		userID, id).WithContext(ctx).
		Scan(&o.UserID, &o.ID, &row.itemsJSON, &o.TotalAmount, &o.Tax,
			&o.ShippingFee, &o.Status, &row.addressJSON, &row.paymentJSON,
			&o.CreatedAt, &o.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := decodeOrder(&o, row); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *scyllaOrders) write(ctx context.Context, o *models.Order) error {
	row, err := encodeOrder(o)
	if err != nil {
		return err
	}
	return s.session.Query(
		`INSERT INTO orders_by_user (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.ID, row.itemsJSON, o.TotalAmount, o.Tax, o.ShippingFee,
		o.Status, row.addressJSON, row.paymentJSON, o.CreatedAt, o.UpdatedAt).
		WithContext(ctx).Exec()
}

func (s *scyllaOrders) Create(ctx context.Context, o *models.Order) error {
	return s.write(ctx, o)
}

func (s *scyllaOrders) Replace(ctx context.Context, o *models.Order) error {
	return s.write(ctx, o)
}

func (s *scyllaOrders) Delete(ctx context.Context, id, userID string) (*models.Order, error) {
	o, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.session.Query(
		`DELETE FROM orders_by_user WHERE user_id = ? AND id = ?`, userID, id).
		WithContext(ctx).Exec(); err != nil {
		return nil, err
	}
	return o, nil
}
