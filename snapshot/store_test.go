package snapshot

import (
	"context"
	"testing"

	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/game/roster"
	"github.com/pokechain/arena/model"
	"github.com/pokechain/arena/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreature(speciesID int, name string, level int) *creature.Creature {
	c := &creature.Creature{
		SpeciesID: speciesID,
		Name:      name,
		Types:     []string{"grass", "poison"},
		Base:      [6]int{45, 49, 49, 65, 65, 45},
		Level:     level,
		Learned:   map[string]bool{"vine-whip": true},
	}
	for i := range c.IVs {
		c.IVs[i] = creature.PlayerIV
	}
	creature.PadMoves(c)
	c.HP = c.MaxHP()
	return c
}

func seedState(t *testing.T, store *Store, identity string) *State {
	t.Helper()
	profile := &model.Profile{Identity: identity, TrainerName: "Ash_" + identity}
	require.NoError(t, store.CreateProfile(context.Background(), profile))

	party := &roster.Party{}
	party.Add(newCreature(1, "bulbasaur", 7))
	party.Add(newCreature(4, "charmander", 5))

	st := &State{
		Profile:      profile,
		Party:        party,
		Inventory:    roster.NewInventoryFrom(map[string]int{model.ItemHealSmall: 3, model.ItemRevival: 1}),
		Progression:  &model.Progression{ProfileID: profile.ID, Coins: 500, TrainerLevel: 1, Wins: 2},
		Achievements: map[string]bool{"first_win": true},
	}
	require.NoError(t, store.Save(context.Background(), st))
	return st
}

func TestLoad_NoProfile(t *testing.T) {
	store := NewStore(testutil.SetupTestDB(t), nil)
	_, err := store.Load(context.Background(), "0xnobody")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := NewStore(testutil.SetupTestDB(t), nil)
	saved := seedState(t, store, "0xabc")

	// Save writes DB ids back into the runtime structs.
	for _, c := range saved.Party.Team {
		assert.NotZero(t, c.ID)
	}

	loaded, err := store.Load(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.Equal(t, saved.Profile.ID, loaded.Profile.ID)
	assert.Equal(t, saved.Profile.TrainerName, loaded.Profile.TrainerName)

	require.Len(t, loaded.Party.Team, 2)
	lead := loaded.Party.Team[0]
	assert.Equal(t, "bulbasaur", lead.Name)
	assert.Equal(t, 7, lead.Level)
	assert.Equal(t, []string{"grass", "poison"}, lead.Types)
	assert.Equal(t, [6]int{45, 49, 49, 65, 65, 45}, lead.Base)
	assert.Equal(t, creature.PlayerIV, lead.IVs[0])
	assert.True(t, lead.Learned["vine-whip"])
	assert.Len(t, lead.Moves, creature.MoveSlots)

	assert.Equal(t, 3, loaded.Inventory.Count(model.ItemHealSmall))
	assert.Equal(t, 1, loaded.Inventory.Count(model.ItemRevival))

	assert.Equal(t, int64(500), loaded.Progression.Coins)
	assert.Equal(t, 2, loaded.Progression.Wins)
	assert.True(t, loaded.Achievements["first_win"])
}

func TestSave_TeamSlotsAndStorage(t *testing.T) {
	store := NewStore(testutil.SetupTestDB(t), nil)
	st := seedState(t, store, "0xdef")

	stored := newCreature(19, "rattata", 3)
	st.Party.Storage = append(st.Party.Storage, stored)
	require.NoError(t, store.Save(context.Background(), st))

	loaded, err := store.Load(context.Background(), "0xdef")
	require.NoError(t, err)

	require.Len(t, loaded.Party.Team, 2)
	require.Len(t, loaded.Party.Storage, 1)
	assert.Equal(t, "rattata", loaded.Party.Storage[0].Name)
	// Team order survives the round trip.
	assert.Equal(t, "bulbasaur", loaded.Party.Team[0].Name)
	assert.Equal(t, "charmander", loaded.Party.Team[1].Name)
}

func TestSave_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := NewStore(db, nil)
	st := seedState(t, store, "0xghi")

	// A second save must update rows, not duplicate them.
	require.NoError(t, store.Save(context.Background(), st))

	var count int64
	require.NoError(t, db.Model(&model.Creature{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	require.NoError(t, db.Model(&model.InventoryItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestBattleHistory(t *testing.T) {
	store := NewStore(testutil.SetupTestDB(t), nil)
	st := seedState(t, store, "0xjkl")

	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordBattle(context.Background(), &model.BattleRecord{
			ProfileID:         st.Profile.ID,
			Result:            model.BattleResultWin,
			OpponentsDefeated: i + 1,
		}))
	}

	recs, err := store.BattleHistory(context.Background(), st.Profile.ID, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Most recent first.
	assert.Equal(t, 3, recs[0].OpponentsDefeated)
}
