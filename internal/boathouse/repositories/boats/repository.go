package boats

import (
	"context"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Boat) (*models.Boat, error)
	GetBoat(ctx context.Context, id int64) (*models.Boat, error)
	List(ctx context.Context) ([]*models.Boat, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
