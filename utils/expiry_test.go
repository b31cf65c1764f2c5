package utils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Konathalavenkat/AuctionSphereX/config"
	"github.com/Konathalavenkat/AuctionSphereX/models"
)

func newExpiryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.SetForTesting(config.AppConfig{
		JWTSecret: "test-secret",
		// Port 1 is never listening, so caching degrades to a no-op.
		RedisHost: "127.0.0.1",
		RedisPort: 1,
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedExpiringProduct(t *testing.T, db *gorm.DB, name string, expiry *time.Time) models.Product {
	t.Helper()
	p := models.Product{SellerID: 1, Name: name, ExpiryTime: expiry}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

func countProducts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	return count
}

func TestRemoveExpiredProduct(t *testing.T) {
	db := newExpiryTestDB(t)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	overdue := seedExpiringProduct(t, db, "overdue", &past)
	pending := seedExpiringProduct(t, db, "pending", &future)
	forever := seedExpiringProduct(t, db, "forever", nil)

	RemoveExpiredProduct(db, overdue.ID)
	RemoveExpiredProduct(db, pending.ID)
	RemoveExpiredProduct(db, forever.ID)

	var remaining []models.Product
	if err := db.Order("id").Find(&remaining).Error; err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(remaining))
	}
	if remaining[0].Name != "pending" || remaining[1].Name != "forever" {
		t.Fatalf("wrong survivors: %s, %s", remaining[0].Name, remaining[1].Name)
	}

	// Removing an already deleted id is a no-op.
	RemoveExpiredProduct(db, overdue.ID)
	if got := countProducts(t, db); got != 2 {
		t.Fatalf("count after repeat removal = %d, want 2", got)
	}
}

func TestRemoveExpiredProductAfterManualDelete(t *testing.T) {
	db := newExpiryTestDB(t)

	past := time.Now().Add(-time.Second)
	p := seedExpiringProduct(t, db, "sold", &past)
	other := seedExpiringProduct(t, db, "kept", nil)

	// A user delete racing ahead of the timer must not take anything else out.
	if err := db.Delete(&models.Product{}, p.ID).Error; err != nil {
		t.Fatalf("manual delete: %v", err)
	}
	RemoveExpiredProduct(db, p.ID)

	var got models.Product
	if err := db.First(&got, other.ID).Error; err != nil {
		t.Fatalf("unrelated product gone: %v", err)
	}
}

func TestSweepExpiredProducts(t *testing.T) {
	db := newExpiryTestDB(t)

	past := time.Now().Add(-time.Hour)
	alsoPast := time.Now().Add(-time.Second)
	future := time.Now().Add(time.Hour)
	seedExpiringProduct(t, db, "old1", &past)
	seedExpiringProduct(t, db, "old2", &alsoPast)
	seedExpiringProduct(t, db, "fresh", &future)
	seedExpiringProduct(t, db, "forever", nil)

	SweepExpiredProducts(db)

	var remaining []models.Product
	if err := db.Order("id").Find(&remaining).Error; err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(remaining))
	}
	if remaining[0].Name != "fresh" || remaining[1].Name != "forever" {
		t.Fatalf("wrong survivors: %s, %s", remaining[0].Name, remaining[1].Name)
	}
}

func TestStartExpirySweeperCatchesUpImmediately(t *testing.T) {
	db := newExpiryTestDB(t)

	past := time.Now().Add(-time.Hour)
	seedExpiringProduct(t, db, "stale", &past)

	// With an hour-long interval only the startup pass can remove the row
	// within the polling window below.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartExpirySweeper(ctx, db, time.Hour)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if countProducts(t, db) == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("startup sweep never removed the overdue listing")
}

func TestScheduleRemovalNegativeDelayFires(t *testing.T) {
	db := newExpiryTestDB(t)

	past := time.Now().Add(-time.Minute)
	p := seedExpiringProduct(t, db, "late", &past)

	ScheduleRemoval(db, p.ID, -time.Second)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if countProducts(t, db) == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("scheduled removal never fired")
}

