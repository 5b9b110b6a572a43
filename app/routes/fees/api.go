package fees

import (
	"context"
	"errors"
	"net/url"

	"retail-transfers/app/feetable"
	"retail-transfers/app/metrics"
	"retail-transfers/app/models"
	"retail-transfers/app/money"
	"retail-transfers/app/routes/auth"
	"retail-transfers/app/routes/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// tiers reads through the cache.
func (h *Handler) tiers(ctx context.Context) ([]models.FeeTier, error) {
	if tiers, ok := h.cache.FeeTiers(ctx); ok {
		metrics.CacheLookups.WithLabelValues("transfer_fees", metrics.Hit(true)).Inc()
		return tiers, nil
	}
	metrics.CacheLookups.WithLabelValues("transfer_fees", metrics.Hit(false)).Inc()

	tiers, err := h.store.ListFeeTiers(ctx)
	if err != nil {
		return nil, err
	}
	h.cache.SetFeeTiers(ctx, tiers)
	return tiers, nil
}

func (h *Handler) GetTransferFeesAPI(c *fiber.Ctx) error {
	tiers, err := h.tiers(c.UserContext())
	if err != nil {
		h.log.Error("failed to load fee tiers", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load transfer fees")
	}
	return response.OK(c, fiber.Map{"transferFees": tiers})
}

// GetTransferFeeByAmountAPI answers with the matching tier, or a zero tier when none covers the amount.
func (h *Handler) GetTransferFeeByAmountAPI(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("amount"))
	if err != nil {
		raw = c.Params("amount")
	}
	amount, err := money.ParseFloat(raw)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be a number")
	}

	tiers, err := h.tiers(c.UserContext())
	if err != nil {
		h.log.Error("failed to load fee tiers", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load transfer fees")
	}

	tier, ok := feetable.Match(amount, tiers)
	metrics.FeeLookups.WithLabelValues(metrics.Hit(ok)).Inc()
	return response.OK(c, fiber.Map{"transferFee": tier})
}

// SaveTransferFeesAPI replaces the whole fee table. Nothing is written unless every tier is valid.
func (h *Handler) SaveTransferFeesAPI(c *fiber.Ctx) error {
	var req models.SaveFeeTiersInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := feetable.ValidateTiers(req.Data); err != nil {
		var tierErrs feetable.TierErrors
		if errors.As(err, &tierErrs) {
			return response.Invalid(c, tierErrs.Fields())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	saved, err := h.store.ReplaceFeeTiers(ctx, req.Data)
	if err != nil {
		h.log.Error("failed to save fee tiers", zap.Int("count", len(req.Data)), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save transfer fees")
	}
	h.cache.InvalidateFeeTiers(ctx)
	metrics.FeeTableSaves.Inc()

	h.log.Info("fee table replaced", zap.Int("tiers", len(saved)), zap.String("user_id", auth.CurrentUser(c).ID))
	return response.JSON(c, fiber.StatusOK, fiber.Map{"transferFees": saved}, "Transfer fees saved")
}
