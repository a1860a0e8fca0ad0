package members

import (
	"context"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Member) (*models.Member, error)
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	List(ctx context.Context) ([]*models.Member, error)
	Update(ctx context.Context, m *models.Member) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
