package totals

import (
	"context"
	"database/sql"

	"retail-transfers/app/cache"
	"retail-transfers/app/metrics"
	"retail-transfers/app/models"
	"retail-transfers/app/routes/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Store sums every record ever created.
type Store interface {
	Totals(ctx context.Context) (models.Total, error)
}

type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) Totals(ctx context.Context) (models.Total, error) {
	var t models.Total
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(fee), 0) FROM transfer_records`,
	).Scan(&t.Total, &t.Fee)
	return t, err
}

type Handler struct {
	store Store
	cache cache.Cache
	log   *zap.Logger
}

func NewHandler(store Store, c cache.Cache, log *zap.Logger) *Handler {
	return &Handler{store: store, cache: c, log: log}
}

func SetupTotalsRoutes(router fiber.Router, h *Handler) {
	router.Get("/transfer-totals", h.GetTransferTotalsAPI)
}

func (h *Handler) GetTransferTotalsAPI(c *fiber.Ctx) error {
	ctx := c.UserContext()
	total, ok := h.cache.Totals(ctx)
	metrics.CacheLookups.WithLabelValues("transfer_totals", metrics.Hit(ok)).Inc()
	if !ok {
		var err error
		total, err = h.store.Totals(ctx)
		if err != nil {
			h.log.Error("failed to sum transfer records", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load totals")
		}
		h.cache.SetTotals(ctx, total)
	}
	return response.OK(c, fiber.Map{"transferTotal": total})
}
