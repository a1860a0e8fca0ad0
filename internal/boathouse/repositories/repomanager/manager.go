package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/admins"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/boats"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/members"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Members(db dbx.DBTX) members.Repository
	Boats(db dbx.DBTX) boats.Repository
	Admins(db dbx.DBTX) admins.Repository
	Permissions() admins.PermissionStore
}
