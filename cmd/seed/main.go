// seed creates a development admin account and a sample active policy.
// Safe to re-run; existing rows are left alone.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/config"
	"insurance-claims/backend/internal/db"
	policydomain "insurance-claims/backend/internal/policy/domain"
	policyrepo "insurance-claims/backend/internal/policy/repository"
	"insurance-claims/backend/internal/security"
	userdomain "insurance-claims/backend/internal/user/domain"
	userrepo "insurance-claims/backend/internal/user/repository"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
	policyName    = "Standard Coverage Policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		fail("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.Env == "production" {
		fail("refusing to seed with APP_ENV=production")
	}

	database, err := db.Open(cfg.DatabaseURL, db.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime(),
	})
	if err != nil {
		fail("database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	users := userrepo.NewPostgresRepository(database)
	policies := policyrepo.NewPostgresRepository(database)
	hasher := security.NewHasher(cfg.BcryptCost)

	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		fail("lookup admin: %v", err)
	}
	var adminID string
	if existing != nil {
		adminID = existing.ID
		fmt.Printf("admin %s already exists\n", adminEmail)
	} else {
		hash, err := hasher.Hash([]byte(adminPassword))
		if err != nil {
			fail("hash password: %v", err)
		}
		admin := &userdomain.User{
			ID:           uuid.NewString(),
			Email:        adminEmail,
			PasswordHash: hash,
			Role:         userdomain.RoleAdmin,
			FirstName:    "Admin",
			LastName:     "User",
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, admin); err != nil {
			fail("create admin: %v", err)
		}
		adminID = admin.ID
		fmt.Printf("created admin %s (password %q)\n", adminEmail, adminPassword)
	}

	all, err := policies.List(ctx, policyrepo.ListFilter{})
	if err != nil {
		fail("list policies: %v", err)
	}
	for _, p := range all {
		if p.Name == policyName {
			fmt.Printf("policy %q already exists\n", policyName)
			return
		}
	}
	policy := &policydomain.Policy{
		ID:          uuid.NewString(),
		Name:        policyName,
		Description: "Baseline coverage for accidents, theft, and damage.",
		CreatedByID: adminID,
		Status:      policydomain.StatusActive,
		EffectiveAt: now.Truncate(24 * time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := policies.Create(ctx, policy); err != nil {
		fail("create policy: %v", err)
	}
	fmt.Printf("created policy %q\n", policyName)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
