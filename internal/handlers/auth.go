package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jerehe1/folio/internal/middleware"
	"github.com/jerehe1/folio/internal/models"
	"github.com/jerehe1/folio/internal/services"
	"github.com/jerehe1/folio/pkg/logger"
)

type AuthHandler struct {
	authService  *services.AuthService
	limiter      *middleware.LoginLimiter
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, limiter *middleware.LoginLimiter, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		limiter:      limiter,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// Register creates a user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login exchanges credentials for a bearer token, also set as the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if !h.limiter.Check(ip) {
		logger.WithField("client_ip", ip).Warn("Login rate limit exceeded")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts, try again later"})
		return
	}

	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.limiter.Record(ip)
		respondError(c, err)
		return
	}
	h.limiter.Reset(ip)

	middleware.SetSession(c, token, h.tokenTTL, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the account behind the bearer token
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
