package fees

import (
	"retail-transfers/app/cache"
	"retail-transfers/app/models"
	"retail-transfers/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
}

func NewHandler(store Store, c cache.Cache, log *zap.Logger) *Handler {
	return &Handler{store: store, cache: c, log: log}
}

// SetupFeesRoutes mounts /transfer-fees on an already authenticated router.
func SetupFeesRoutes(router fiber.Router, h *Handler) {
	fees := router.Group("/transfer-fees")

	fees.Get("/", h.GetTransferFeesAPI)
	fees.Get("/amount/:amount", h.GetTransferFeeByAmountAPI)
	fees.Post("/many", auth.RoleMiddleware(models.RoleAdmin, models.RoleCashier), h.SaveTransferFeesAPI)
}
