package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sanabridge/docs"
	"sanabridge/internal/cache"
	"sanabridge/internal/config"
	"sanabridge/internal/db"
	"sanabridge/internal/handler"
	"sanabridge/internal/model"
	"sanabridge/internal/queue"
	"sanabridge/internal/repository"
	"sanabridge/internal/router"
	"sanabridge/internal/service"
	"sanabridge/internal/session"
)

// @title SanaBridge API
// @version 1.0
// @description Healthcare administration API with organizations, patients, referrals and session-cookie authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Invitation{},
			&model.Referral{},
			&model.Patient{},
			&model.Session{},
			&model.UserOrganization{},
			&model.Organization{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
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

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	publisher := queue.NewPublisher(cfg.AMQPURL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	orgRepo := repository.NewOrganizationRepository(gormDB)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	patientRepo := repository.NewPatientRepository(gormDB)
	referralRepo := repository.NewReferralRepository(gormDB)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	// Initialize session subsystem
	manager := session.NewManager(sessionRepo, cfg.SessionDuration, cfg.CookieSecure)
	gate := session.NewGate(manager, userRepo, cacheClient)

	// Initialize services
	accountService := service.NewAccountService(userRepo, sessionRepo, manager, cfg.BcryptCost)
	userService := service.NewUserService(userRepo, cacheClient, cfg.BcryptCost)
	orgService := service.NewOrganizationService(orgRepo, membershipRepo, cacheClient)
	patientService := service.NewPatientService(patientRepo)
	referralService := service.NewReferralService(referralRepo, patientRepo, publisher)
	invitationService := service.NewInvitationService(invitationRepo, membershipRepo, orgRepo, publisher, cfg.InviteSecret)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(accountService, manager, gate)
	userHandler := handler.NewUserHandler(userService, gate)
	orgHandler := handler.NewOrganizationHandler(orgService)
	patientHandler := handler.NewPatientHandler(patientService)
	referralHandler := handler.NewReferralHandler(referralService)
	invitationHandler := handler.NewInvitationHandler(invitationService)

	// Register routes
	router.Register(
		e,
		cfg,
		gate,
		cacheClient,
		authHandler,
		userHandler,
		orgHandler,
		patientHandler,
		referralHandler,
		invitationHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
