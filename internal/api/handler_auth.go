package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carwash-backend/internal/mw"
	"carwash-backend/internal/store"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a dashboard user and issues a bearer token. The
// response nests token and user under "data", which is the shape the web
// clients persist to local storage.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.store.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	claims := mw.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if user.WasherID != nil {
		claims.WasherID = *user.WasherID
	}
	token, err := mw.SignToken(h.cfg.Auth.JWTSecret, h.cfg.Auth.TokenTTL, claims)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token": token,
			"user":  user,
		},
	})
}
