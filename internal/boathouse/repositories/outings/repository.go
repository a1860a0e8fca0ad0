package outings

import (
	"context"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
)

// Repository is the persistence contract of the outing store.
type Repository interface {
	Insert(ctx context.Context, o *models.Outing) error
	Update(ctx context.Context, o *models.Outing) (int64, error)
	Delete(ctx context.Context, year int, id string) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Outing, error)
	GetByDay(ctx context.Context, day time.Time) ([]*models.Outing, error)
	Query(ctx context.Context, q Query) ([]*models.Outing, error)
	ReplaceMember(ctx context.Context, oldID, newID int64) (int64, error)
	ReplaceBoat(ctx context.Context, oldID, newID int64) (int64, error)
}
