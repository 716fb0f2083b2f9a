package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pokechain/arena/game/player"
	"github.com/pokechain/arena/game/progression"
	mw "github.com/pokechain/arena/middleware"
)

// ProfileHandler covers the naming step, starter selection, and the
// trainer overview.
type ProfileHandler struct {
	svc    *player.Service
	logger *zap.Logger
}

func NewProfileHandler(svc *player.Service, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

type createProfileRequest struct {
	TrainerName string `json:"trainer_name" binding:"required,min=3,max=20"`
	Pin         string `json:"pin" binding:"omitempty,min=4,max=16"`
}

// Create handles POST /api/profile, the one-time naming step.
func (h *ProfileHandler) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.svc.CreateProfile(c.Request.Context(), mw.GetIdentity(c), req.TrainerName, req.Pin)
	if err != nil {
		fail(c, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	c.JSON(http.StatusCreated, gin.H{
		"profile_id":   s.State.Profile.ID,
		"trainer_name": s.State.Profile.TrainerName,
		"coins":        s.State.Progression.Coins,
	})
}

// Get handles GET /api/profile, the trainer overview.
func (h *ProfileHandler) Get(c *gin.Context) {
	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}

	s.Lock()
	defer s.Unlock()
	prog := s.State.Progression
	achievements := make([]gin.H, 0, len(s.State.Achievements))
	for code := range s.State.Achievements {
		achievements = append(achievements, gin.H{
			"code": code,
			"name": progression.AchievementNames[code],
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"profile_id":    s.State.Profile.ID,
		"trainer_name":  s.State.Profile.TrainerName,
		"coins":         prog.Coins,
		"wins":          prog.Wins,
		"losses":        prog.Losses,
		"trainer_level": prog.TrainerLevel,
		"trainer_xp":    prog.TrainerXP,
		"next_xp":       progression.TrainerRequiredXP(prog.TrainerLevel),
		"free_revive":   !prog.FreeReviveUsed,
		"purchases":     prog.Purchases,
		"achievements":  achievements,
		"team_size":     len(s.State.Party.Team),
		"storage_size":  len(s.State.Party.Storage),
		"in_battle":     s.InBattle(),
	})
}

// Quests handles GET /api/profile/quests.
func (h *ProfileHandler) Quests(c *gin.Context) {
	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": h.svc.Quests(s), "day": time.Now().UTC().Format("2006-01-02")})
}

// Starters handles GET /api/starters.
func (h *ProfileHandler) Starters(c *gin.Context) {
	list, err := h.svc.Starters(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"starters": list})
}

type chooseStarterRequest struct {
	SpeciesID int `json:"species_id" binding:"required,min=1"`
}

// ChooseStarter handles POST /api/starters/choose.
func (h *ProfileHandler) ChooseStarter(c *gin.Context) {
	var req chooseStarterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	chosen, err := h.svc.ChooseStarter(c.Request.Context(), s, req.SpeciesID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"creature": viewCreature(chosen)})
}
