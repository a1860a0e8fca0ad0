// This file implements AdminService: administrator credentials, their
// permissions and session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/auth"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/repomanager"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/cryptox"
	"github.com/dmitrijs2005/boathouse/internal/dbx"
)

// AdminService stores salted argon2id credentials. Password material never
// leaves the service; only salts and digests are persisted.
type AdminService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AdminService {
	return &AdminService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// AddCredential creates an admin with a fresh salt. A taken user name
// yields common.ErrDuplicateEntry. The credential and its permissions are
// written in one transaction.
func (s *AdminService) AddCredential(ctx context.Context, userName, password string, isRoot bool, permissions []string) (*models.Admin, error) {
	if userName == "" {
		return nil, common.InvalidArgument("user name is empty")
	}
	if password == "" {
		return nil, common.InvalidArgument("password is empty")
	}

	salt := cryptox.NewSalt()
	admin := &models.Admin{
		UserName:    userName,
		Salt:        salt,
		Hash:        cryptox.HashPassword([]byte(password), salt),
		IsRoot:      isRoot,
		Permissions: models.NormalizePermissions(permissions),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Admins(tx).Create(ctx, admin)
		if err != nil {
			return err
		}
		return s.repomanager.Permissions().Save(ctx, tx, created.ID, admin.Permissions)
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// GetCredential returns the admin with its permissions, or nil and no
// error when the user name is unknown.
func (s *AdminService) GetCredential(ctx context.Context, userName string) (*models.Admin, error) {
	admin, err := s.repomanager.Admins(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	admin.Permissions, err = s.repomanager.Permissions().Load(ctx, s.db, admin.ID)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// Verify reports whether password matches the stored credential. Unknown
// users and wrong passwords both yield false; only storage failures return
// an error.
func (s *AdminService) Verify(ctx context.Context, userName, password string) (bool, error) {
	admin, err := s.repomanager.Admins(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Unknown names take as long as wrong passwords.
			cryptox.CheckPassword([]byte(password), s.getRandomSalt(), nil)
			return false, nil
		}
		return false, err
	}
	return cryptox.CheckPassword([]byte(password), admin.Salt, admin.Hash), nil
}

// ChangePassword regenerates the salt and stores the new digest.
func (s *AdminService) ChangePassword(ctx context.Context, userName, newPassword string) error {
	if userName == "" {
		return common.InvalidArgument("user name is empty")
	}
	if newPassword == "" {
		return common.InvalidArgument("password is empty")
	}

	salt := cryptox.NewSalt()
	n, err := s.repomanager.Admins(s.db).UpdateCredentials(ctx, userName, salt, cryptox.HashPassword([]byte(newPassword), salt))
	if err != nil {
		return err
	}
	if n == 0 {
		return adminNotFound(userName)
	}
	return nil
}

// ModifyAdmin replaces the role and permission set of an existing admin.
func (s *AdminService) ModifyAdmin(ctx context.Context, userName string, isRoot bool, permissions []string) error {
	if userName == "" {
		return common.InvalidArgument("user name is empty")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Admins(tx)
		admin, err := repo.GetByUserName(ctx, userName)
		if errors.Is(err, common.ErrorNotFound) {
			return adminNotFound(userName)
		}
		if err != nil {
			return err
		}
		n, err := repo.UpdateRole(ctx, userName, isRoot)
		if err != nil {
			return err
		}
		if n == 0 {
			return adminNotFound(userName)
		}
		return s.repomanager.Permissions().Save(ctx, tx, admin.ID, permissions)
	})
}

func (s *AdminService) RemoveAdmin(ctx context.Context, userName string) error {
	if userName == "" {
		return common.InvalidArgument("user name is empty")
	}
	n, err := s.repomanager.Admins(s.db).Delete(ctx, userName)
	if err != nil {
		return err
	}
	if n == 0 {
		return adminNotFound(userName)
	}
	return nil
}

func adminNotFound(userName string) error {
	return fmt.Errorf("admin %q: %w", userName, common.ErrorNotFound)
}

// ListAdmins returns every admin with its permissions, ordered by user name.
func (s *AdminService) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	list, err := s.repomanager.Admins(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if a.Permissions, err = s.repomanager.Permissions().Load(ctx, s.db, a.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Login verifies the credential and returns a session token.
func (s *AdminService) Login(ctx context.Context, userName, password string) (string, error) {
	admin, err := s.repomanager.Admins(s.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if !cryptox.CheckPassword([]byte(password), admin.Salt, admin.Hash) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(admin.UserName, admin.IsRoot, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Authenticate validates a session token and returns the admin's user name.
// Tokens of admins removed since login are rejected.
func (s *AdminService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return "", err
	}

	if _, err := s.repomanager.Admins(s.db).GetByUserName(ctx, claims.UserName); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	return claims.UserName, nil
}

func (s *AdminService) getRandomSalt() []byte { return common.GenerateRandByteArray(cryptox.SaltSize) }
