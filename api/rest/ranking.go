package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pokechain/arena/game/player"
	mw "github.com/pokechain/arena/middleware"
)

// RankingHandler covers the leaderboard and battle history.
type RankingHandler struct {
	svc    *player.Service
	logger *zap.Logger
}

func NewRankingHandler(svc *player.Service, logger *zap.Logger) *RankingHandler {
	return &RankingHandler{svc: svc, logger: logger}
}

// Leaderboard handles GET /api/ranking/wins?limit=10.
func (h *RankingHandler) Leaderboard(c *gin.Context) {
	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	entries, err := h.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// History handles GET /api/ranking/history?limit=20.
func (h *RankingHandler) History(c *gin.Context) {
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	records, err := h.svc.BattleHistory(c.Request.Context(), s, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": records})
}
