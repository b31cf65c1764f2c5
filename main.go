package main

import (
	"context"
	"time"

	"github.com/Konathalavenkat/AuctionSphereX/config"
	"github.com/Konathalavenkat/AuctionSphereX/models"
	"github.com/Konathalavenkat/AuctionSphereX/routes"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Product{}, &models.Notification{})

	r := routes.SetupRouter(db)

	// Durable expiry: the sweeper picks up listings whose in-memory timers
	// were lost to a restart.
	utils.StartExpirySweeper(context.Background(), db, time.Duration(cfg.ExpirySweepSeconds)*time.Second)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
