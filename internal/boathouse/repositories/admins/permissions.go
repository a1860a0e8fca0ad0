package admins

import (
	"context"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
)

// TablePermissionStore keeps one admin_permissions row per permission.
type TablePermissionStore struct{}

func (TablePermissionStore) Load(ctx context.Context, db dbx.DBTX, adminID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT permission FROM admin_permissions WHERE admin_id = ? ORDER BY permission`, adminID)
	if err != nil {
		return nil, common.NewStorageError("load permissions", err)
	}
	defer rows.Close()

	perms := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, common.NewStorageError("scan permission", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("load permissions", err)
	}
	return perms, nil
}

// Save replaces the stored set with perms.
func (TablePermissionStore) Save(ctx context.Context, db dbx.DBTX, adminID int64, perms []string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM admin_permissions WHERE admin_id = ?`, adminID); err != nil {
		return common.NewStorageError("clear permissions", err)
	}
	for _, p := range models.NormalizePermissions(perms) {
		_, err := db.ExecContext(ctx,
			`INSERT INTO admin_permissions (admin_id, permission) VALUES (?, ?)`, adminID, p)
		if err != nil {
			return common.NewStorageError("save permission", err)
		}
	}
	return nil
}

// RootOnlyPermissionStore persists nothing; every admin is either root or
// holds no permission.
type RootOnlyPermissionStore struct{}

func (RootOnlyPermissionStore) Load(context.Context, dbx.DBTX, int64) ([]string, error) {
	return []string{}, nil
}

func (RootOnlyPermissionStore) Save(_ context.Context, _ dbx.DBTX, _ int64, perms []string) error {
	if len(models.NormalizePermissions(perms)) > 0 {
		return common.InvalidArgument("permissions are not supported by this store")
	}
	return nil
}
