package login

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/argon"
	"dentastock/infrastructure/rbac"
	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

func findUserByEmail(ctx context.Context, tx bun.Tx, email string) (models.User, error) {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func authenticateUser(ctx context.Context, db *sqlite.DB, email, password string) (models.User, error) {
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		user, err = findUserByEmail(ctx, tx, email)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	ok, err := argon.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, sql.ErrNoRows
	}

	return user, nil
}

func persistSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		// One session row per token; token is the unique ID.
		_, err := tx.NewInsert().Model(&models.Session{
			ID:        session.ID,
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt,
		}).Exec(ctx)
		return err
	})
}

func DeleteSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}

func LoadSessionByToken(ctx context.Context, db *sqlite.DB, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().
			Model(&session).
			Relation("User").
			Where("s.id = ?", token).
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}
		session.UserRoles = []string{session.User.Role}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired() {
		_ = DeleteSessionByToken(ctx, db, token)
		return models.Session{}, sql.ErrNoRows
	}
	return session, nil
}

// SignupInput creates a clinic account. Admin accounts are seeded from the
// command line, never through signup.
type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	CompanyName string `json:"companyName"`
}

func createUser(ctx context.Context, db *sqlite.DB, input SignupInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, errors.New("a valid email is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.User{}, errors.New("name is required")
	}
	accountType := input.AccountType
	if accountType == "" {
		accountType = "individual"
	}
	if accountType != "individual" && accountType != "company" {
		return models.User{}, fmt.Errorf("unknown account type: %s", accountType)
	}
	if err := ValidatePasswordPolicy(input.Password); err != nil {
		return models.User{}, err
	}

	hash, err := argon.CreateHash(input.Password, argon.DefaultParams)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		AccountType:  accountType,
		Phone:        strings.TrimSpace(input.Phone),
		Position:     strings.TrimSpace(input.Position),
		CompanyName:  strings.TrimSpace(input.CompanyName),
		Role:         rbac.RoleClinic,
	}
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := findUserByEmail(ctx, tx, email); err == nil {
			return errors.New("email already registered")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err := tx.NewInsert().Model(&user).Exec(ctx)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpsertUserPasswordHash seeds or resets an account from the command line.
func UpsertUserPasswordHash(ctx context.Context, db *sqlite.DB, email, name, role, rawPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("email is required")
	}
	rawPassword = strings.TrimSpace(rawPassword)
	if rawPassword == "" {
		return errors.New("password is required")
	}
	if err := ValidatePasswordPolicy(rawPassword); err != nil {
		return err
	}
	hash, err := argon.CreateHash(rawPassword, argon.DefaultParams)
	if err != nil {
		return err
	}

	now := time.Now()
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO users (email, password_hash, name, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
  password_hash = excluded.password_hash,
  role = excluded.role,
  updated_at = excluded.updated_at`, email, hash, name, role, now, now)
		return err
	})
}
