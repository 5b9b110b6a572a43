package records

import (
	"retail-transfers/app/cache"
	"retail-transfers/app/models"
	"retail-transfers/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Handler struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
}

func NewHandler(store Store, c cache.Cache, log *zap.Logger) *Handler {
	return &Handler{store: store, cache: c, log: log}
}

// SetupRecordsRoutes mounts /transfer-records on an already authenticated router.
func SetupRecordsRoutes(router fiber.Router, h *Handler) {
	records := router.Group("/transfer-records")

	records.Get("/", h.GetTransferRecordsAPI)
	records.Get("/reports", h.GetReportsAPI)
	records.Get("/reports/export", h.ExportReportsAPI)
	records.Post("/", auth.RoleMiddleware(models.RoleAdmin, models.RoleCashier), h.CreateTransferRecordAPI)
}
