package store

import (
	"context"

	"github.com/gocql/gocql"

	"shopmall_back_end/internal/models"
)

// scyllaUsers persiste les utilisateurs dans deux tables :
//   - users_by_email : les enregistrements, partitionnés par email.
//     L'email étant lui-même la clé unique, l'insert se fait en
//     transaction légère : pas de doublon possible, même en concurrence.
//   - users_by_id    : index id → email pour les appels sans la clé de
//     partition (PUT /users/:id sans email fourni)
type scyllaUsers struct {
	session *gocql.Session
}

func NewScyllaUsers(session *gocql.Session) UserStore {
	return &scyllaUsers{session: session}
}

const userColumns = `email, id, name, password, user_type, address, created_at, updated_at`

func (s *scyllaUsers) scanUser(q *gocql.Query) (*models.User, error) {
	var u models.User
	err := q.Scan(&u.Email, &u.ID, &u.Name, &u.Password, &u.UserType,
		&u.Address, &u.CreatedAt, &u.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *scyllaUsers) ListAll(ctx context.Context) ([]models.User, error) {
	iter := s.session.Query(`SELECT ` + userColumns + ` FROM users_by_email`).
		WithContext(ctx).Iter()

	var users []models.User
	var u models.User
	for iter.Scan(&u.Email, &u.ID, &u.Name, &u.Password, &u.UserType,
		&u.Address, &u.CreatedAt, &u.UpdatedAt) {
		users = append(users, u)
		u = models.User{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *scyllaUsers) GetByID(ctx context.Context, id, emailHint string) (*models.User, error) {
	email := emailHint
	if email == "" {
		// L'appelant n'a pas la clé de partition : on la résout via l'index.
		err := s.session.Query(`SELECT email FROM users_by_id WHERE id = ?`, id).
			WithContext(ctx).Scan(&email)
		if err == gocql.ErrNotFound {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	u, err := s.scanUser(s.session.Query(
		`SELECT `+userColumns+` FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if u.ID != id {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *scyllaUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.session.Query(
		`SELECT `+userColumns+` FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx))
}

func (s *scyllaUsers) Create(ctx context.Context, u *models.User) error {
	applied, err := s.session.Query(
		`INSERT INTO users_by_email (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		u.Email, u.ID, u.Name, u.Password, u.UserType, u.Address,
		u.CreatedAt, u.UpdatedAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		return ErrConflict
	}

	return s.session.Query(
		`INSERT INTO users_by_id (id, email) VALUES (?, ?)`, u.ID, u.Email).
		WithContext(ctx).Exec()
}

// Replace réécrit l'enregistrement. L'email est la clé de partition et ne
// change jamais par cette opération.
func (s *scyllaUsers) Replace(ctx context.Context, u *models.User) error {
	return s.session.Query(
		`INSERT INTO users_by_email (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.ID, u.Name, u.Password, u.UserType, u.Address,
		u.CreatedAt, u.UpdatedAt).WithContext(ctx).Exec()
}

func (s *scyllaUsers) Delete(ctx context.Context, id, email string) error {
	if _, err := s.GetByID(ctx, id, email); err != nil {
		return err
	}
	if err := s.session.Query(`DELETE FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	return s.session.Query(`DELETE FROM users_by_id WHERE id = ?`, id).
		WithContext(ctx).Exec()
}
