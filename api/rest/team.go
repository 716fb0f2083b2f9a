package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pokechain/arena/game/player"
	mw "github.com/pokechain/arena/middleware"
)

// TeamHandler covers roster and inventory management outside battle.
type TeamHandler struct {
	svc    *player.Service
	logger *zap.Logger
}

func NewTeamHandler(svc *player.Service, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{svc: svc, logger: logger}
}

func (h *TeamHandler) session(c *gin.Context) (*player.Session, bool) {
	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return s, true
}

// List handles GET /api/team.
func (h *TeamHandler) List(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Lock()
	defer s.Unlock()

	team := make([]creatureView, 0, len(s.State.Party.Team))
	for _, cr := range s.State.Party.Team {
		team = append(team, viewCreature(cr))
	}
	storage := make([]creatureView, 0, len(s.State.Party.Storage))
	for _, cr := range s.State.Party.Storage {
		storage = append(storage, viewCreature(cr))
	}
	c.JSON(http.StatusOK, gin.H{
		"team":    team,
		"storage": storage,
		"active":  s.State.Party.Active,
		"items":   s.State.Inventory.Items(),
	})
}

type indexRequest struct {
	Index int `json:"index" binding:"min=0"`
}

// SwitchActive handles POST /api/team/active.
func (h *TeamHandler) SwitchActive(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.SwitchActiveOutside(c.Request.Context(), s, req.Index); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": req.Index})
}

type useItemRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Target int    `json:"target" binding:"min=0,max=5"`
}

// UseItem handles POST /api/team/item.
func (h *TeamHandler) UseItem(c *gin.Context) {
	var req useItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.UseItemOutside(c.Request.Context(), s, req.Kind, req.Target); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item used"})
}

// Heal handles POST /api/team/heal.
func (h *TeamHandler) Heal(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.HealTeam(c.Request.Context(), s); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "team healed"})
}

// Promote handles POST /api/team/promote.
func (h *TeamHandler) Promote(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.PromoteCreature(c.Request.Context(), s, req.Index); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "promoted"})
}

// Demote handles POST /api/team/demote.
func (h *TeamHandler) Demote(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.DemoteCreature(c.Request.Context(), s, req.Index); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "demoted"})
}
