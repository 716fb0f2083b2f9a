package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pokechain/arena/cache"
	"github.com/pokechain/arena/cache/local"
	"github.com/pokechain/arena/catalog"
	dbsqlite "github.com/pokechain/arena/db/sqlite"
	"github.com/pokechain/arena/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// SetupTestDB creates an in-memory SQLite DB and runs AutoMigrate. Each
// call gets its own database, so parallel tests do not share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := dbsqlite.Open(dsn)
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates a LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := local.NewCache(local.Config{GCInterval: time.Minute})
	require.NoError(t, err, "SetupTestCache: NewCache")
	return c
}

// SetupTestCatalog starts a stub upstream and returns a catalog Client
// pointed at it. The stub serves the fixtures in fixtures.go.
func SetupTestCatalog(t *testing.T) *catalog.Client {
	t.Helper()
	srv := StubCatalogServer(t)
	return catalog.New(srv.URL, 5*time.Second, SetupTestCache(t), nil)
}
