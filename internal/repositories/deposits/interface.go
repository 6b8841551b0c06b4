// Package deposits persists fixed deposits. Records of all accounts share one
// table; callers scope reads and bulk deletes with the "username" index.
package deposits

import (
	"context"

	"github.com/dmitrijs2005/licai/internal/models"
)

// Repository stores deposits keyed by ID.
//
// Supported indexes: "username", "bank", "date", "expiryDate". Date values are
// given in timex.DateLayout.
type Repository interface {
	Save(ctx context.Context, d *models.Deposit) (int64, error)
	Get(ctx context.Context, id int64) (*models.Deposit, error)
	GetAll(ctx context.Context) ([]models.Deposit, error)
	GetAllByIndex(ctx context.Context, index, value string) ([]models.Deposit, error)
	Delete(ctx context.Context, id int64) error
	DeleteByIndex(ctx context.Context, index, value string) (int64, error)
	Clear(ctx context.Context) error
}
