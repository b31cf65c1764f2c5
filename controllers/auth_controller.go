package controllers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Konathalavenkat/AuctionSphereX/models"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

const tokenDuration = 24 * time.Hour

// AuthController handles registration, login and the current-user endpoint.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a new account with a bcrypt-hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=1"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Fail(ctx, "user already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	user := models.User{
		Name:         utils.Sanitize(strings.TrimSpace(req.Name)),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	utils.OKMessage(ctx, "User registered successfully")
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		utils.Fail(ctx, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Fail(ctx, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tokenDuration)
	if err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	utils.OK(ctx, gin.H{"token": token})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Fail(ctx, "user not found")
		return
	}
	// Role comes from the token so a stale claim is visible to the client.
	utils.OK(ctx, gin.H{"user": user, "role": getRole(ctx)})
}
