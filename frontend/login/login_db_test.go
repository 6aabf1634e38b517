package login

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"dentastock/infrastructure/rbac"
	"dentastock/infrastructure/sqlite"
)

func openLoginTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "login-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := openLoginTestDB(t)

	user, err := createUser(context.Background(), db, SignupInput{
		Email:       "Dentist@Example.com",
		Password:    "Str0ng-Passw0rd!",
		Name:        "Dr. Adams",
		AccountType: "company",
		CompanyName: "Bright Smile Dental",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "dentist@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.Role != rbac.RoleClinic {
		t.Fatalf("expected clinic role, got %q", user.Role)
	}

	authed, err := authenticateUser(context.Background(), db, "DENTIST@example.com", "Str0ng-Passw0rd!")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected same user id")
	}

	if _, err := authenticateUser(context.Background(), db, "dentist@example.com", "wrong-password"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows for bad password, got %v", err)
	}
}

func TestCreateUser_RejectsDuplicateEmail(t *testing.T) {
	db := openLoginTestDB(t)

	input := SignupInput{Email: "dentist@example.com", Password: "Str0ng-Passw0rd!", Name: "Dr. Adams"}
	if _, err := createUser(context.Background(), db, input); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := createUser(context.Background(), db, input); err == nil {
		t.Fatalf("expected error for duplicate email")
	}
}

func TestCreateUser_EnforcesPasswordPolicy(t *testing.T) {
	db := openLoginTestDB(t)

	_, err := createUser(context.Background(), db, SignupInput{Email: "dentist@example.com", Password: "weak", Name: "Dr. Adams"})
	if err == nil {
		t.Fatalf("expected password policy error")
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openLoginTestDB(t)

	user, err := createUser(context.Background(), db, SignupInput{Email: "dentist@example.com", Password: "Str0ng-Passw0rd!", Name: "Dr. Adams"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	session := newSession(user)
	if err := persistSession(context.Background(), db, session); err != nil {
		t.Fatalf("persist session: %v", err)
	}

	loaded, err := LoadSessionByToken(context.Background(), db, session.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if loaded.UserID != user.ID || loaded.User.Email != "dentist@example.com" {
		t.Fatalf("unexpected loaded session: %+v", loaded)
	}
	if len(loaded.UserRoles) != 1 || loaded.UserRoles[0] != rbac.RoleClinic {
		t.Fatalf("expected clinic role on session, got %v", loaded.UserRoles)
	}

	if err := DeleteSessionByToken(context.Background(), db, session.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := LoadSessionByToken(context.Background(), db, session.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestUpsertUserPasswordHash_SeedsAdmin(t *testing.T) {
	db := openLoginTestDB(t)

	if err := UpsertUserPasswordHash(context.Background(), db, "admin@example.com", "Admin", rbac.RoleAdmin, "Adm1n-Passw0rd!"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	user, err := authenticateUser(context.Background(), db, "admin@example.com", "Adm1n-Passw0rd!")
	if err != nil {
		t.Fatalf("authenticate seeded admin: %v", err)
	}
	if user.Role != rbac.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}

	// Re-seeding rotates the password in place.
	if err := UpsertUserPasswordHash(context.Background(), db, "admin@example.com", "Admin", rbac.RoleAdmin, "Rotat3d-Passw0rd!"); err != nil {
		t.Fatalf("rotate password: %v", err)
	}
	if _, err := authenticateUser(context.Background(), db, "admin@example.com", "Adm1n-Passw0rd!"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, err := authenticateUser(context.Background(), db, "admin@example.com", "Rotat3d-Passw0rd!"); err != nil {
		t.Fatalf("authenticate with rotated password: %v", err)
	}
}
