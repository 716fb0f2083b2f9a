package ledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pokechain/arena/model"
	"github.com/pokechain/arena/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_Accepted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, 0, 0, nil, nil)

	rc := svc.Submit(context.Background(), 7, ActionMintStarter, map[string]any{"species_id": 1})

	assert.True(t, rc.Accepted)
	assert.NotEmpty(t, rc.ReceiptID)

	// Stop drains the batch writer before we read back.
	svc.Stop(context.Background())

	var rows []model.LedgerReceipt
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, rc.ReceiptID, rows[0].ReceiptID)
	assert.Equal(t, int64(7), rows[0].ProfileID)
	assert.Equal(t, ActionMintStarter, rows[0].Action)
	assert.True(t, rows[0].Accepted)
}

func TestSubmit_FailureRate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rng := rand.New(rand.NewSource(1))
	svc := New(db, 0, 1.0, rng, nil)
	defer svc.Stop(context.Background())

	rc := svc.Submit(context.Background(), 1, ActionRecordBattle, nil)

	assert.False(t, rc.Accepted)
	assert.NotEmpty(t, rc.Error)
	assert.NotEmpty(t, rc.ReceiptID, "rejections still carry a receipt id")
}

func TestSubmit_ContextCancelled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, time.Minute, 0, nil, nil)
	defer svc.Stop(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := svc.Submit(ctx, 1, ActionBuyCreature, nil)
	assert.False(t, rc.Accepted)
}

func TestStop_DrainsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, 0, 0, nil, nil)

	for i := 0; i < 5; i++ {
		svc.Submit(context.Background(), int64(i), ActionListCreature, nil)
	}
	svc.Stop(context.Background())

	var count int64
	require.NoError(t, db.Model(&model.LedgerReceipt{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}
