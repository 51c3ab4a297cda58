// Package services implements the application use cases on top of the
// repositories. Each write operation runs inside a single database
// transaction via dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"finbudget/internal/common"
	"finbudget/internal/dbx"
	"finbudget/internal/server/auth"
	"finbudget/internal/server/config"
	"finbudget/internal/server/models"
	"finbudget/internal/server/repositories/repomanager"
)

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a user with a hashed password. Duplicate email or name
// yields common.ErrEmailExists / common.ErrNameExists. The duplicate check
// and the insert share one transaction; the unique indexes backstop any
// race between concurrent registrations.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrEmailExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := repo.GetByName(ctx, name); err == nil {
			return common.ErrNameExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created, err := repo.Create(ctx, &models.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}

		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, int, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", 0, common.ErrorUnauthorized
		}
		return "", 0, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", 0, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", 0, common.ErrorInternal
	}

	return token, user.ID, nil
}

// GetProfile returns the user identified by a previously validated token.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}
