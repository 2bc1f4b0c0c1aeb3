package repositories

import (
	"context"

	"github.com/tiangong-ops/opshub/pkg/database"
	"github.com/tiangong-ops/opshub/pkg/models"
)

// UserRepository defines lookup access to portal operator accounts.
type UserRepository interface {
	// GetByUsername returns the account for username, or
	// apperrors.ErrNotFound if no such account exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password, real_name, role_id
		FROM users
		WHERE username = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Password, &u.RealName, &u.RoleID)
	if err != nil {
		return nil, storeErr("failed to get user", err)
	}

	return &u, nil
}

var _ UserRepository = (*userRepository)(nil)
