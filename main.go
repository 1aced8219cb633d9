package main

import (
	"log"

	api "mailgate-backend/cmd/api"
	"mailgate-backend/internal/inbound"
	mailboxDomain "mailgate-backend/internal/mailbox/domain"
	mailboxRepo "mailgate-backend/internal/mailbox/repository"
	mailboxUsecase "mailgate-backend/internal/mailbox/usecase"
	outboundDomain "mailgate-backend/internal/outbound/domain"
	outboundRepo "mailgate-backend/internal/outbound/repository"
	"mailgate-backend/internal/outbound/scheduler"
	outboundUsecase "mailgate-backend/internal/outbound/usecase"
	syncUsecase "mailgate-backend/internal/sync/usecase"
	"mailgate-backend/pkg/config"
	"mailgate-backend/pkg/database"
	"mailgate-backend/pkg/relay"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&mailboxDomain.User{}, &mailboxDomain.Item{}, &outboundDomain.QueuedDelivery{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := mailboxRepo.NewUserRepository(db)
	itemRepo := mailboxRepo.NewItemRepository(db)
	deliveryRepo := outboundRepo.NewDeliveryRepository(db)

	// Initialize the core engines
	registry := mailboxUsecase.NewRegistry(itemRepo)
	itemUsecase := mailboxUsecase.NewItemUsecase(itemRepo, registry)
	engine := syncUsecase.NewEngine(registry, syncUsecase.CursorPolicy(cfg.CursorPolicy))

	relayClient := relay.NewClient(cfg.SMTPDomain, cfg.RelayTimeout)
	pipeline := outboundUsecase.NewPipeline(deliveryRepo, relayClient, cfg.DeliveryMaxAttempts, cfg.DeliveryBackoffBase)

	// Send paths on CreateItem go through the same pipeline as the sweep
	itemUsecase.SetDeliverySender(pipeline)

	// Start the background queue sweep
	sweeper := scheduler.NewQueueSweeper(pipeline, cfg.QueueSweepInterval)
	sweeper.Start()

	// Start the inbound SMTP server
	smtpServer := inbound.NewServer(cfg.SMTPListenAddr, cfg.SMTPDomain, inbound.NewBackend(userRepo, itemRepo))
	go func() {
		log.Printf("SMTP server listening on %s", cfg.SMTPListenAddr)
		if err := smtpServer.ListenAndServe(); err != nil {
			log.Fatal("SMTP server failed:", err)
		}
	}()

	// Initialize HTTP handler
	handler := api.NewHandler(userRepo, registry, itemUsecase, engine, pipeline)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
