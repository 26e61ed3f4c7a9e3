package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"schoolhub/backend/internal/shared"
)

func setupTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()

	mongoURI := shared.GetEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg := shared.DefaultMongoConfig(mongoURI, "schoolhub_admin_test")
	cfg.ConnectTimeout = 10 * time.Second
	cfg.MaxPoolSize = 5
	cfg.MinPoolSize = 1

	client, db, err := shared.ConnectMongoDB(cfg)
	if err != nil {
		t.Skipf("Skipping: MongoDB not reachable at %s: %v", mongoURI, err)
	}
	t.Cleanup(func() { shared.DisconnectMongoDB(client) })

	ctx := context.Background()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	if err := shared.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	svcCfg := &shared.ServiceConfig{
		Security: shared.SecurityConfig{BCryptCost: 4},
	}
	return NewService(db, svcCfg), ctx
}

func TestAdminLifecycle(t *testing.T) {
	svc, ctx := setupTestService(t)

	a, err := svc.CreateAdmin(ctx, &CreateRequest{
		Username: "  superadmin  ",
		Email:    "Admin@Test.LOCAL",
		Password: "admin12345",
	})
	if err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}
	if a.Username != "superadmin" {
		t.Errorf("Expected trimmed username, got %q", a.Username)
	}
	if a.Email != "admin@test.local" {
		t.Errorf("Expected lowercased email, got %q", a.Email)
	}
	if a.Role != shared.RoleAdmin {
		t.Errorf("Expected role admin, got %q", a.Role)
	}
	if a.PasswordHash != "" {
		t.Error("Password hash must never be returned")
	}

	t.Run("Duplicate Username", func(t *testing.T) {
		_, err := svc.CreateAdmin(ctx, &CreateRequest{
			Username: "superadmin",
			Email:    "other@test.local",
			Password: "admin12345",
		})
		if !errors.Is(err, shared.ErrDuplicateKey) {
			t.Errorf("Expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		_, err := svc.CreateAdmin(ctx, &CreateRequest{
			Username: "otheradmin",
			Email:    "admin@test.local",
			Password: "admin12345",
		})
		if !errors.Is(err, shared.ErrDuplicateKey) {
			t.Errorf("Expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("Short Password", func(t *testing.T) {
		_, err := svc.CreateAdmin(ctx, &CreateRequest{
			Username: "shortpw",
			Email:    "shortpw@test.local",
			Password: "short",
		})
		if _, ok := shared.AsValidationError(err); !ok {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "superadmin", "admin12345")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != a.ID {
			t.Errorf("Expected admin %s, got %s", a.ID, got.ID)
		}
		if got.PasswordHash != "" {
			t.Error("Password hash must never be returned")
		}
	})

	t.Run("Authenticate Wrong Password", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "superadmin", "wrong"); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("Authenticate Unknown Username", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "ghost", "admin12345"); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("Expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		got, err := svc.GetByID(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Username != "superadmin" {
			t.Errorf("Unexpected admin: %+v", got)
		}

		if _, err := svc.GetByID(ctx, "adm_usr_missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
