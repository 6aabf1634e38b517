package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"dentastock/infrastructure/sqlite"
	"dentastock/models"
)

// View is the editable subset of a user record. Email and role changes go
// through the admin, not here.
type View struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	CompanyName string `json:"companyName"`
	Role        string `json:"role"`
}

type UpdateInput struct {
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	CompanyName string `json:"companyName"`
}

func Load(ctx context.Context, db *sqlite.DB, userID int64) (View, error) {
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&user).Where("u.id = ?", userID).Limit(1).Scan(ctx)
	})
	if err != nil {
		return View{}, err
	}
	return View{
		Email:       user.Email,
		Name:        user.Name,
		AccountType: user.AccountType,
		Phone:       user.Phone,
		Position:    user.Position,
		CompanyName: user.CompanyName,
		Role:        user.Role,
	}, nil
}

func Update(ctx context.Context, db *sqlite.DB, userID int64, input UpdateInput) (View, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return View{}, fmt.Errorf("name is required")
	}
	switch input.AccountType {
	case "individual", "company":
	default:
		return View{}, fmt.Errorf("unknown account type: %s", input.AccountType)
	}

	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("name = ?", input.Name).
			Set("account_type = ?", input.AccountType).
			Set("phone = ?", strings.TrimSpace(input.Phone)).
			Set("position = ?", strings.TrimSpace(input.Position)).
			Set("company_name = ?", strings.TrimSpace(input.CompanyName)).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return View{}, err
	}
	return Load(ctx, db, userID)
}
