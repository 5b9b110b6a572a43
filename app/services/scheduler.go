// Package services runs background jobs next to the API server.
package services

import (
	"context"
	"time"

	"retail-transfers/app/cache"
	"retail-transfers/app/models"

	"go.uber.org/zap"
)

// WarmInterval stays under cache.DefaultTTL so warm keys never lapse between runs.
const WarmInterval = 4 * time.Minute

type FeeSource interface {
	ListFeeTiers(ctx context.Context) ([]models.FeeTier, error)
}

type TotalsSource interface {
	Totals(ctx context.Context) (models.Total, error)
}

// WarmCache copies the fee table and the running totals into the cache.
func WarmCache(ctx context.Context, fees FeeSource, totals TotalsSource, c cache.Cache, log *zap.Logger) error {
	tiers, err := fees.ListFeeTiers(ctx)
	if err != nil {
		return err
	}
	c.SetFeeTiers(ctx, tiers)

	total, err := totals.Totals(ctx)
	if err != nil {
		return err
	}
	c.SetTotals(ctx, total)

	log.Debug("cache warmed", zap.Int("fee_tiers", len(tiers)))
	return nil
}

// StartScheduler warms the cache once and then every interval until ctx is done.
func StartScheduler(ctx context.Context, interval time.Duration, fees FeeSource, totals TotalsSource, c cache.Cache, log *zap.Logger) {
	go func() {
		log.Info("scheduler started", zap.Duration("interval", interval))
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := WarmCache(ctx, fees, totals, c, log); err != nil {
				log.Warn("cache warm failed", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				log.Info("scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}
