// Package funds persists fund purchases.
package funds

import (
	"context"

	"github.com/dmitrijs2005/licai/internal/models"
)

// Repository stores funds keyed by ID. Supported indexes: "username",
// "platform", "date".
type Repository interface {
	Save(ctx context.Context, f *models.Fund) (string, error)
	Get(ctx context.Context, id string) (*models.Fund, error)
	GetAll(ctx context.Context) ([]models.Fund, error)
	GetAllByIndex(ctx context.Context, index, value string) ([]models.Fund, error)
	Delete(ctx context.Context, id string) error
	DeleteByIndex(ctx context.Context, index, value string) (int64, error)
	Clear(ctx context.Context) error
}
