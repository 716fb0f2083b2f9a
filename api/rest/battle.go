package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/player"
	mw "github.com/pokechain/arena/middleware"
)

// BattleHandler exposes the battle state machine as commands. Every
// response carries the events the command produced plus the resulting
// battle snapshot; terminal commands add the settlement summary.
type BattleHandler struct {
	svc    *player.Service
	logger *zap.Logger
}

func NewBattleHandler(svc *player.Service, logger *zap.Logger) *BattleHandler {
	return &BattleHandler{svc: svc, logger: logger}
}

func (h *BattleHandler) session(c *gin.Context) (*player.Session, bool) {
	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return s, true
}

// respond writes the standard battle command response.
func (h *BattleHandler) respond(c *gin.Context, s *player.Session, events []battle.Event, view *player.BattleOutcomeView) {
	body := gin.H{"events": eventViews(events)}
	if snap, err := h.svc.BattleSnapshot(s); err == nil {
		body["battle"] = snap
	}
	if view != nil {
		body["settlement"] = view
	}
	if offers := h.svc.PendingOffers(s); len(offers) > 0 {
		body["pending_offers"] = offers
	}
	c.JSON(http.StatusOK, body)
}

type startBattleRequest struct {
	Opponents int `json:"opponents" binding:"required,min=1"`
}

// Start handles POST /api/battle/start.
func (h *BattleHandler) Start(c *gin.Context) {
	var req startBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, err := h.svc.StartBattle(c.Request.Context(), s, req.Opponents)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, s, events, nil)
}

// State handles GET /api/battle.
func (h *BattleHandler) State(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := h.svc.BattleSnapshot(s)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": snap})
}

type moveRequest struct {
	Slot int `json:"slot" binding:"min=0,max=3"`
}

// Move handles POST /api/battle/move.
func (h *BattleHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, view, err := h.svc.UseMove(c.Request.Context(), s, req.Slot)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, s, events, view)
}

type switchRequest struct {
	Index int `json:"index" binding:"min=0,max=5"`
}

// Switch handles POST /api/battle/switch.
func (h *BattleHandler) Switch(c *gin.Context) {
	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, view, err := h.svc.SwitchCreature(c.Request.Context(), s, req.Index)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, s, events, view)
}

type battleItemRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Target int    `json:"target" binding:"min=0,max=5"`
}

// Item handles POST /api/battle/item.
func (h *BattleHandler) Item(c *gin.Context) {
	var req battleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, view, err := h.svc.UseBattleItem(c.Request.Context(), s, req.Kind, req.Target)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, s, events, view)
}

// Run handles POST /api/battle/run.
func (h *BattleHandler) Run(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, view, err := h.svc.Run(c.Request.Context(), s)
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, s, events, view)
}

type recoverRequest struct {
	Option string `json:"option" binding:"required"`
}

// Recover handles POST /api/battle/recover.
func (h *BattleHandler) Recover(c *gin.Context) {
	var req recoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	events, view, err := h.svc.Recover(c.Request.Context(), s, battle.RecoveryOption(req.Option))
	if err != nil {
		fail(c, err)
		return
	}
	h.respond(c, s, events, view)
}

// Offers handles GET /api/battle/offers.
func (h *BattleHandler) Offers(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": h.svc.PendingOffers(s)})
}

type resolveOfferRequest struct {
	CreatureID  int64 `json:"creature_id" binding:"required"`
	ReplaceSlot int   `json:"replace_slot" binding:"min=0,max=3"`
	Accept      *bool `json:"accept" binding:"required"`
}

// ResolveOffer handles POST /api/battle/offers/resolve.
func (h *BattleHandler) ResolveOffer(c *gin.Context) {
	var req resolveOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.ResolveMoveOffer(c.Request.Context(), s, req.CreatureID, req.ReplaceSlot, *req.Accept); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resolved"})
}
