package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking_manager/internal/api"
	"parking_manager/internal/api/handler"
	"parking_manager/internal/api/middleware"
	"parking_manager/internal/config"
	"parking_manager/internal/repository/postgresql"
	"parking_manager/internal/service"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded.")

	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection established.")

	userRepo := postgresql.NewPgUserRepository(db)
	areaRepo := postgresql.NewPgAreaRepository(db)
	parkingRepo := postgresql.NewPgParkingRepository(db)
	sectionRepo := postgresql.NewPgSectionRepository(db)
	slotRepo := postgresql.NewPgSlotRepository(db)
	priceRepo := postgresql.NewPgPriceRepository(db)
	vehicleRepo := postgresql.NewPgVehicleRepository(db)
	passRepo := postgresql.NewPgPassRepository(db)
	ticketRepo := postgresql.NewPgTicketRepository(db)

	hub := handler.NewAvailabilityHub()
	go hub.Start()
	log.Println("Availability hub started.")

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	allocationService := service.NewAllocationService(areaRepo, slotRepo, hub)
	pricingService := service.NewPricingService(priceRepo)
	parkingService := service.NewParkingService(areaRepo, parkingRepo, sectionRepo, slotRepo, priceRepo)
	ticketService := service.NewTicketService(ticketRepo, vehicleRepo, passRepo, parkingRepo, allocationService, pricingService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := api.SetupRouter(authService, parkingService, allocationService, ticketService, authMiddleware, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shut down: %v", err)
	}

	log.Println("Server stopped.")
}
