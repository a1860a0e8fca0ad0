package admins

import (
	"context"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
)

// Repository persists admin credentials. Permissions are not touched; they
// belong to a PermissionStore.
type Repository interface {
	Create(ctx context.Context, a *models.Admin) (*models.Admin, error)
	GetByUserName(ctx context.Context, userName string) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	UpdateCredentials(ctx context.Context, userName string, salt, hash []byte) (int64, error)
	UpdateRole(ctx context.Context, userName string, isRoot bool) (int64, error)
	Delete(ctx context.Context, userName string) (int64, error)
}

// PermissionStore is the strategy persisting an admin's permission set.
// Every call receives the handle to run on so it can join a transaction.
type PermissionStore interface {
	Load(ctx context.Context, db dbx.DBTX, adminID int64) ([]string, error)
	Save(ctx context.Context, db dbx.DBTX, adminID int64, perms []string) error
}
