package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Advansoftware/FinWise-sub002/internal/config"
	"github.com/Advansoftware/FinWise-sub002/internal/database"
	"github.com/Advansoftware/FinWise-sub002/internal/handlers"
	"github.com/Advansoftware/FinWise-sub002/internal/repository"
	"github.com/Advansoftware/FinWise-sub002/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	familyService := service.NewFamilyService(familyRepo, activityRepo, userRepo)
	inviteService := service.NewInviteService(familyRepo, inviteRepo, activityRepo, userRepo, emailService)
	sharingService := service.NewSharingService(familyRepo, activityRepo)
	activityService := service.NewActivityService(familyRepo, activityRepo)

	// Initialize handlers
	middleware := handlers.NewMiddleware(cfg.JWTSecret)
	familyHandler := handlers.NewFamilyHandler(familyService, activityService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	sharingHandler := handlers.NewSharingHandler(sharingService)

	mux := http.NewServeMux()

	// Family routes
	mux.HandleFunc("POST /api/family", middleware.RequireAuth(familyHandler.CreateFamily))
	mux.HandleFunc("GET /api/family", middleware.RequireAuth(familyHandler.GetUserFamily))
	mux.HandleFunc("GET /api/family/can-create", middleware.RequireAuth(familyHandler.CanCreateFamily))
	mux.HandleFunc("GET /api/family/{id}", middleware.RequireAuth(familyHandler.GetFamily))
	mux.HandleFunc("PUT /api/family/{id}", middleware.RequireAuth(familyHandler.UpdateFamily))
	mux.HandleFunc("DELETE /api/family/{id}", middleware.RequireAuth(familyHandler.DeleteFamily))
	mux.HandleFunc("POST /api/family/{id}/leave", middleware.RequireAuth(familyHandler.LeaveFamily))
	mux.HandleFunc("DELETE /api/family/{id}/members/{memberId}", middleware.RequireAuth(familyHandler.RemoveMember))
	mux.HandleFunc("PUT /api/family/{id}/members/{memberId}/role", middleware.RequireAuth(familyHandler.UpdateMemberRole))
	mux.HandleFunc("GET /api/family/{id}/dashboard", middleware.RequireAuth(familyHandler.GetDashboard))
	mux.HandleFunc("GET /api/family/{id}/activity", middleware.RequireAuth(familyHandler.GetActivity))

	// Invite routes
	mux.HandleFunc("POST /api/family/{id}/invites", middleware.RequireAuth(inviteHandler.InviteMember))
	mux.HandleFunc("GET /api/family/{id}/invites", middleware.RequireAuth(inviteHandler.GetFamilyInvites))
	mux.HandleFunc("GET /api/invites", middleware.RequireAuth(inviteHandler.GetUserInvites))
	mux.HandleFunc("GET /api/invites/token/{token}", inviteHandler.GetInviteByToken)
	mux.HandleFunc("POST /api/invites/token/{token}/accept", middleware.RequireAuth(inviteHandler.AcceptInvite))
	mux.HandleFunc("POST /api/invites/token/{token}/decline", middleware.RequireAuth(inviteHandler.DeclineInvite))
	mux.HandleFunc("DELETE /api/invites/{inviteId}", middleware.RequireAuth(inviteHandler.CancelInvite))

	// Sharing routes
	mux.HandleFunc("PUT /api/family/{id}/sharing", middleware.RequireAuth(sharingHandler.UpdateSharing))
	mux.HandleFunc("GET /api/family/{id}/members/{memberId}/sharing", middleware.RequireAuth(sharingHandler.GetMemberSharing))
	mux.HandleFunc("GET /api/sharing/access", middleware.RequireAuth(sharingHandler.CheckAccess))
	mux.HandleFunc("GET /api/sharing/resources", middleware.RequireAuth(sharingHandler.GetSharedResources))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
