package api

import (
	authDelivery "mailgate-backend/internal/auth/delivery"
	mailboxDelivery "mailgate-backend/internal/mailbox/delivery"
	mailboxRepo "mailgate-backend/internal/mailbox/repository"
	mailboxUsecase "mailgate-backend/internal/mailbox/usecase"
	outboundDelivery "mailgate-backend/internal/outbound/delivery"
	outboundUsecase "mailgate-backend/internal/outbound/usecase"
	syncDelivery "mailgate-backend/internal/sync/delivery"
	syncUsecase "mailgate-backend/internal/sync/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, users mailboxRepo.UserRepository, registry mailboxUsecase.Registry, items mailboxUsecase.ItemUsecase, engine syncUsecase.Engine, pipeline outboundUsecase.Pipeline) {
	authHandler := authDelivery.NewAuthHandler(users)
	mailboxHandler := mailboxDelivery.NewMailboxHandler(registry, items)
	syncHandler := syncDelivery.NewSyncHandler(engine)
	deliveryHandler := outboundDelivery.NewDeliveryHandler(pipeline)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
		}

		// Folder routes (protected)
		folders := api.Group("/folders")
		folders.Use(authDelivery.BasicAuthMiddleware(users))
		{
			folders.GET("", mailboxHandler.GetFolders)
			folders.GET("/:ref", mailboxHandler.GetFolderByRef)
			folders.GET("/:ref/items", mailboxHandler.GetFolderItems)
		}

		// Item routes (protected)
		itemRoutes := api.Group("/items")
		itemRoutes.Use(authDelivery.BasicAuthMiddleware(users))
		{
			itemRoutes.POST("", mailboxHandler.CreateItem)
			itemRoutes.GET("/:ref", mailboxHandler.GetItemByRef)
			itemRoutes.PATCH("/:ref/read", mailboxHandler.MarkAsRead)
			itemRoutes.PATCH("/:ref/unread", mailboxHandler.MarkAsUnread)
		}

		// Sync routes (protected)
		syncRoutes := api.Group("/sync")
		syncRoutes.Use(authDelivery.BasicAuthMiddleware(users))
		{
			syncRoutes.POST("/hierarchy", syncHandler.HierarchySync)
			syncRoutes.POST("/items", syncHandler.ItemSync)
		}

		// Delivery routes (protected)
		deliveries := api.Group("/deliveries")
		deliveries.Use(authDelivery.BasicAuthMiddleware(users))
		{
			deliveries.POST("", deliveryHandler.Enqueue)
			deliveries.GET("/:id", deliveryHandler.GetReceipt)
		}
	}
}
