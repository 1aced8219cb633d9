package api

import (
	mailboxRepo "mailgate-backend/internal/mailbox/repository"
	mailboxUsecase "mailgate-backend/internal/mailbox/usecase"
	outboundUsecase "mailgate-backend/internal/outbound/usecase"
	syncUsecase "mailgate-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	users    mailboxRepo.UserRepository
	registry mailboxUsecase.Registry
	items    mailboxUsecase.ItemUsecase
	engine   syncUsecase.Engine
	pipeline outboundUsecase.Pipeline
}

func NewHandler(users mailboxRepo.UserRepository, registry mailboxUsecase.Registry, items mailboxUsecase.ItemUsecase, engine syncUsecase.Engine, pipeline outboundUsecase.Pipeline) *Handler {
	return &Handler{
		users:    users,
		registry: registry,
		items:    items,
		engine:   engine,
		pipeline: pipeline,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	SetupRoutes(r, h.users, h.registry, h.items, h.engine, h.pipeline)

	return r.Run(addr)
}
