package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sanabridge/internal/config"
	"sanabridge/internal/db"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
)

const (
	seedAdminEmail    = "admin@sanabridge.local"
	seedAdminPassword = "change-me-now1"
	seedOrgName       = "Demo Family Clinic"
)

// Seeds a SUPERADMIN user and a demo organization so a fresh install
// has a working login. Idempotent: existing rows are left alone.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Organization{},
		&model.UserOrganization{},
		&model.Session{},
		&model.Patient{},
		&model.Referral{},
		&model.Invitation{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepository(gormDB)
	orgs := repository.NewOrganizationRepository(gormDB)
	memberships := repository.NewMembershipRepository(gormDB)

	admin, err := users.FindByEmail(ctx, seedAdminEmail)
	switch {
	case err == nil:
		log.Printf("Admin user %s already exists, skipping", seedAdminEmail)
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		admin = &model.User{
			FirstName:    "Platform",
			LastName:     "Admin",
			Email:        seedAdminEmail,
			PasswordHash: string(hashed),
			Role:         model.RoleSuperAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("create admin: %v", err)
		}
		log.Printf("Created SUPERADMIN %s (change the password immediately)", seedAdminEmail)
	default:
		log.Fatalf("find admin: %v", err)
	}

	org, err := orgs.FindByName(ctx, seedOrgName)
	switch {
	case err == nil:
		log.Printf("Organization %q already exists, skipping", seedOrgName)
	case errors.Is(err, gorm.ErrRecordNotFound):
		org = &model.Organization{
			Name:         seedOrgName,
			Type:         "clinic",
			City:         "Springfield",
			State:        "IL",
			ContactEmail: "frontdesk@demo-clinic.local",
		}
		if err := orgs.Create(ctx, org); err != nil {
			log.Fatalf("create organization: %v", err)
		}
		if err := memberships.Create(ctx, &model.UserOrganization{
			UserID:         admin.ID,
			OrganizationID: org.ID,
			Role:           model.OrgRoleOwner,
			Active:         true,
		}); err != nil {
			log.Fatalf("create membership: %v", err)
		}
		log.Printf("Created organization %q owned by %s", seedOrgName, seedAdminEmail)
	default:
		log.Fatalf("find organization: %v", err)
	}

	log.Println("Seed complete")
}
