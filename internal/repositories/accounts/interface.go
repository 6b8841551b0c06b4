// Package accounts persists local logins keyed by username.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/licai/internal/models"
)

// Repository stores accounts. Get returns common.ErrNotFound for unknown
// usernames; GetAllByIndex accepts the index "role".
type Repository interface {
	Save(ctx context.Context, a *models.Account) (string, error)
	Get(ctx context.Context, username string) (*models.Account, error)
	GetAll(ctx context.Context) ([]models.Account, error)
	GetAllByIndex(ctx context.Context, index, value string) ([]models.Account, error)
	Delete(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}
