package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/Konathalavenkat/AuctionSphereX/config"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

// ConfigController serves environment-driven UI configuration.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetFooter returns the footer configuration rendered by the web client.
func (c *ConfigController) GetFooter(ctx *gin.Context) {
	cfg := config.Get()
	utils.OK(ctx, gin.H{
		"copyright":    cfg.FooterCopyright,
		"contact_path": cfg.FooterContactPath,
		"social": []gin.H{
			{"name": "github", "url": cfg.FooterGithubURL},
			{"name": "email", "url": cfg.FooterEmailLink},
			{"name": "instagram", "url": cfg.FooterInstagram},
		},
	})
}
