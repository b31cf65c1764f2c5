package utils

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Konathalavenkat/AuctionSphereX/models"
)

// ScheduleRemoval arranges a one-shot deletion of the product once its expiry
// instant passes. A non-positive delay fires immediately. The timer is
// in-process only; StartExpirySweeper covers timers lost across restarts.
func ScheduleRemoval(db *gorm.DB, productID uint, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		RemoveExpiredProduct(db, productID)
	}()
}

// RemoveExpiredProduct deletes the product only if its persisted expiry time
// has actually passed, so a manual delete beforehand is a no-op and an edit
// that extended the expiry wins over a stale timer. Failures are logged only;
// no caller is waiting.
func RemoveExpiredProduct(db *gorm.DB, productID uint) {
	res := db.Where("id = ? AND expiry_time IS NOT NULL AND expiry_time <= ?", productID, time.Now()).
		Delete(&models.Product{})
	if res.Error != nil {
		if Sugar != nil {
			Sugar.Errorf("error removing expired product %d: %v", productID, res.Error)
		}
		return
	}
	if res.RowsAffected > 0 {
		InvalidateByPrefix("cache:products:")
		if Sugar != nil {
			Sugar.Infof("expired product %d removed", productID)
		}
	}
}

// StartExpirySweeper launches a background loop that periodically deletes
// every product whose expiry time has passed. It makes expiry durable: a
// process restart loses the in-memory timers but never the expirations.
func StartExpirySweeper(ctx context.Context, db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		// Catch up immediately so listings that expired while the process
		// was down do not linger for a full tick.
		SweepExpiredProducts(db)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				SweepExpiredProducts(db)
			}
		}
	}()
}

// SweepExpiredProducts removes all overdue listings in one pass.
func SweepExpiredProducts(db *gorm.DB) {
	res := db.Where("expiry_time IS NOT NULL AND expiry_time <= ?", time.Now()).
		Delete(&models.Product{})
	if res.Error != nil {
		if Sugar != nil {
			Sugar.Errorf("expiry sweep failed: %v", res.Error)
		}
		return
	}
	if res.RowsAffected > 0 {
		InvalidateByPrefix("cache:products:")
		if Sugar != nil {
			Sugar.Infof("expiry sweep removed %d products", res.RowsAffected)
		}
	}
}
