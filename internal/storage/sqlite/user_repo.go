package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"pulseboard/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password) VALUES (?, ?, ?)`,
		user.ID.String(), user.Email, user.Password,
	)
	return err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password FROM users WHERE email = ?`, email,
	)

	var (
		user domain.User
		id   string
	)
	if err := row.Scan(&id, &user.Email, &user.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	user.ID = parsed

	return &user, nil
}
