package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pokechain/arena/cache"
	"github.com/pokechain/arena/config"
	"github.com/pokechain/arena/game/player"
	mw "github.com/pokechain/arena/middleware"
	"github.com/pokechain/arena/snapshot"
)

// AuthHandler links opaque identities (wallet-style addresses) to
// bearer tokens. There is no password: the identity string is assumed
// to be proven upstream, with an optional PIN as a second factor once
// a profile exists.
type AuthHandler struct {
	svc   *player.Service
	cache cache.Cache
	sec   config.SecurityConfig
}

func NewAuthHandler(svc *player.Service, c cache.Cache, sec config.SecurityConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cache: c, sec: sec}
}

type linkRequest struct {
	Identity string `json:"identity" binding:"required,min=4,max=64"`
	Pin      string `json:"pin" binding:"omitempty,max=16"`
}

// Link handles POST /api/auth/link. Identities without a profile get a
// token too; needs_profile tells the client to run the naming step.
func (h *AuthHandler) Link(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profileID int64
	needsProfile := false
	s, err := h.svc.Load(c.Request.Context(), req.Identity)
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		needsProfile = true
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	default:
		s.Lock()
		pinErr := player.VerifyPin(s.State.Profile, req.Pin)
		profileID = s.State.Profile.ID
		s.Unlock()
		if pinErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong PIN"})
			return
		}
	}

	token, err := mw.GenerateToken(req.Identity, profileID, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Set(ctx, "session:"+token, req.Identity, h.sec.JWTTTLH)

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"identity":      req.Identity,
		"profile_id":    profileID,
		"needs_profile": needsProfile,
	})
}

// Unlink handles POST /api/auth/unlink. Drops the session cache entry.
func (h *AuthHandler) Unlink(c *gin.Context) {
	tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+tokenStr)
	c.JSON(http.StatusOK, gin.H{"message": "unlinked"})
}
