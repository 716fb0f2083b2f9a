package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pokechain/arena/game/player"
	"github.com/pokechain/arena/game/roster"
	mw "github.com/pokechain/arena/middleware"
)

// ShopHandler covers the item shop and the daily creature marketplace.
type ShopHandler struct {
	svc    *player.Service
	logger *zap.Logger
}

func NewShopHandler(svc *player.Service, logger *zap.Logger) *ShopHandler {
	return &ShopHandler{svc: svc, logger: logger}
}

func (h *ShopHandler) session(c *gin.Context) (*player.Session, bool) {
	s, err := h.svc.Load(c.Request.Context(), mw.GetIdentity(c))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return s, true
}

// Items handles GET /api/shop/items.
func (h *ShopHandler) Items(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": roster.ItemPrices})
}

type buyItemRequest struct {
	Kind string `json:"kind" binding:"required"`
	Qty  int    `json:"qty" binding:"required,min=1,max=99"`
}

// BuyItem handles POST /api/shop/items/buy.
func (h *ShopHandler) BuyItem(c *gin.Context) {
	var req buyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.svc.BuyItem(c.Request.Context(), s, req.Kind, req.Qty); err != nil {
		fail(c, err)
		return
	}
	s.Lock()
	defer s.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"items": s.State.Inventory.Items(),
		"coins": s.State.Progression.Coins,
	})
}

// Market handles GET /api/shop/market.
func (h *ShopHandler) Market(c *gin.Context) {
	listings, err := h.svc.Market(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

type buyCreatureRequest struct {
	Slot int `json:"slot" binding:"min=0"`
}

// BuyCreature handles POST /api/shop/market/buy.
func (h *ShopHandler) BuyCreature(c *gin.Context) {
	var req buyCreatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	bought, unlocks, err := h.svc.BuyCreature(c.Request.Context(), s, req.Slot)
	if err != nil {
		fail(c, err)
		return
	}
	body := gin.H{"creature": viewCreature(bought)}
	if len(unlocks) > 0 {
		body["unlocks"] = unlocks
	}
	c.JSON(http.StatusCreated, body)
}

type listCreatureRequest struct {
	CreatureID int64 `json:"creature_id" binding:"required"`
	Price      int64 `json:"price" binding:"required,min=1"`
}

// ListCreature handles POST /api/shop/market/list.
func (h *ShopHandler) ListCreature(c *gin.Context) {
	var req listCreatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	rc, err := h.svc.ListCreature(c.Request.Context(), s, req.CreatureID, req.Price)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": rc})
}
