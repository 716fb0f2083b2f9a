package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pokechain/arena/cache"
	"github.com/pokechain/arena/config"
	"github.com/pokechain/arena/game/player"
	"github.com/pokechain/arena/game/progression"
	"github.com/pokechain/arena/ledger"
	mw "github.com/pokechain/arena/middleware"
	"github.com/pokechain/arena/snapshot"
	"github.com/pokechain/arena/testutil"
)

// newTestRouter wires the auth and profile routes the way main does,
// against an in-memory stack.
func newTestRouter(t *testing.T) (*gin.Engine, *player.Service, cache.Cache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	cat := testutil.SetupTestCatalog(t)
	c := testutil.SetupTestCache(t)
	store := snapshot.NewStore(db, nil)
	led := ledger.New(db, 0, 0, nil, nil)
	t.Cleanup(func() { led.Stop(context.Background()) })

	cfg := &config.Config{}
	cfg.Game = config.GameConfig{
		StarterLevel:     5,
		MaxOpponents:     5,
		TeamHealCost:     50,
		MarketSlots:      3,
		OpponentPoolSize: 1,
	}
	cfg.Security = config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: time.Hour}

	sessions := player.NewSessionManager(store, nil)
	engine := progression.NewEngine(cat, nil)
	svc := player.NewService(cfg, cat, engine, led, store, c, sessions, nil)

	authH := NewAuthHandler(svc, c, cfg.Security)
	profileH := NewProfileHandler(svc, zap.NewNop())

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/link", authH.Link)
	api.POST("/auth/unlink", mw.Auth(cfg.Security, c), authH.Unlink)

	profileG := api.Group("/profile")
	profileG.Use(mw.Auth(cfg.Security, c))
	profileG.POST("", profileH.Create)
	profileG.GET("", profileH.Get)

	startersG := api.Group("/starters")
	startersG.Use(mw.Auth(cfg.Security, c))
	startersG.POST("/choose", profileH.ChooseStarter)

	return r, svc, c
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLinkNewIdentity(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/link", "", `{"identity":"0xabcdef"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token        string `json:"token"`
		Identity     string `json:"identity"`
		NeedsProfile bool   `json:"needs_profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "0xabcdef", resp.Identity)
	assert.True(t, resp.NeedsProfile)
}

func TestLinkValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/link", "", `{"identity":"ab"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileLifecycleOverHTTP(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/link", "", `{"identity":"0xabcdef"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var linked struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &linked))

	// Profile routes demand a token.
	w = doJSON(t, r, http.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Before the naming step the overview reports the missing profile.
	w = doJSON(t, r, http.MethodGet, "/api/profile", linked.Token, "")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/profile", linked.Token, `{"trainer_name":"RedOak"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"trainer_name":"RedOak"`)

	w = doJSON(t, r, http.MethodPost, "/api/starters/choose", linked.Token, `{"species_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"bulbasaur"`)

	w = doJSON(t, r, http.MethodGet, "/api/profile", linked.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var overview struct {
		TrainerName string `json:"trainer_name"`
		Coins       int64  `json:"coins"`
		TeamSize    int    `json:"team_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, "RedOak", overview.TrainerName)
	assert.Equal(t, int64(progression.StartingCoins), overview.Coins)
	assert.Equal(t, 1, overview.TeamSize)
}

func TestLinkWithPin(t *testing.T) {
	r, svc, _ := newTestRouter(t)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, "0xabcdef", "RedOak", "1234")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/auth/link", "", `{"identity":"0xabcdef","pin":"9999"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/link", "", `{"identity":"0xabcdef","pin":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		NeedsProfile bool  `json:"needs_profile"`
		ProfileID    int64 `json:"profile_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.NeedsProfile)
	assert.NotZero(t, resp.ProfileID)
}

func TestUnlinkDropsSession(t *testing.T) {
	r, _, c := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/link", "", `{"identity":"0xabcdef"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var linked struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &linked))

	w = doJSON(t, r, http.MethodPost, "/api/auth/unlink", linked.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	// The session cache entry is gone, so the token no longer passes.
	_, err := c.Get(context.Background(), "session:"+linked.Token)
	assert.Error(t, err)
	w = doJSON(t, r, http.MethodGet, "/api/profile", linked.Token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
