package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"podology-clinic-server/internal/config"
	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/middleware"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/utils"
)

const refreshCookie = "refresh_token"

// AuthHandler handles staff authentication requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
	log *logging.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, log *logging.Logger) *AuthHandler {
	if log == nil {
		log = logging.Default()
	}
	return &AuthHandler{DB: db, Cfg: cfg, log: log}
}

// BootstrapAdmin seeds the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Existing accounts are left untouched.
func BootstrapAdmin(db *gorm.DB, cfg *config.Config, log *logging.Logger) error {
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		log.Warn("auth enabled without ADMIN_EMAIL/ADMIN_PASSWORD, no admin seeded")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.Auth.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	admin := models.User{
		Email:     cfg.Auth.AdminEmail,
		FirstName: "Admin",
		Role:      models.RoleAdmin,
	}
	if err := admin.SetPassword(cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("admin account created", "email", admin.Email)
	return nil
}

// RegisterRequest represents the request body for staff registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,staff_role"`
}

// Register creates a staff account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.Conflict(c, "User with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, h.log.Logger, "User not found", err)
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      models.Role(req.Role),
	}
	if err := user.SetPassword(req.Password); err != nil {
		respondError(c, h.log.Logger, "User not found", err)
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		respondError(c, h.log.Logger, "User not found", err)
		return
	}

	utils.Created(c, "User registered successfully", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			respondError(c, h.log.Logger, "User not found", err)
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	pair, err := h.issue(&user)
	if err != nil {
		respondError(c, h.log.Logger, "User not found", err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken, h.Cfg.JWTRefreshExpirationHours*60*60)
	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken rotates the refresh token and issues a new access token.
// The cookie takes precedence over the request body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		token = req.RefreshToken
	}

	claims, err := utils.ValidateToken(token, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	var stored models.RefreshToken
	err = h.DB.Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?",
		token, claims.UserID, false, time.Now()).First(&stored).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		} else {
			respondError(c, h.log.Logger, "Refresh token not found", err)
		}
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "User no longer exists")
		} else {
			respondError(c, h.log.Logger, "User not found", err)
		}
		return
	}

	stored.IsRevoked = true
	if err := h.DB.Save(&stored).Error; err != nil {
		respondError(c, h.log.Logger, "Refresh token not found", err)
		return
	}

	pair, err := h.issue(&user)
	if err != nil {
		respondError(c, h.log.Logger, "User not found", err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken, h.Cfg.JWTRefreshExpirationHours*60*60)
	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout revokes the given refresh token. Unknown or already revoked tokens
// are not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var stored models.RefreshToken
	if err := h.DB.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).First(&stored).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, h.log.Logger, "Refresh token not found", err)
			return
		}
	} else {
		stored.IsRevoked = true
		stored.ExpiresAt = time.Now()
		if err := h.DB.Save(&stored).Error; err != nil {
			respondError(c, h.log.Logger, "Refresh token not found", err)
			return
		}
	}

	h.setRefreshCookie(c, "", -1)
	utils.Success(c, "Logout successful", nil)
}

// GetProfile returns the authenticated staff user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User profile not found")
		} else {
			respondError(c, h.log.Logger, "User profile not found", err)
		}
		return
	}

	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// issue signs a token pair and stores its refresh token.
func (h *AuthHandler) issue(user *models.User) (utils.TokenPair, error) {
	pair, err := utils.IssueTokens(user, h.Cfg)
	if err != nil {
		return utils.TokenPair{}, err
	}

	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := h.DB.Create(&rt).Error; err != nil {
		return utils.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookie(
		refreshCookie,
		value,
		maxAge,
		"/",
		"",
		h.Cfg.Environment != "development",
		true,
	)
}
