package roster

import (
	"testing"

	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/creature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(speciesID int) *creature.Creature {
	c := &creature.Creature{
		SpeciesID: speciesID,
		Name:      "member",
		Types:     []string{"normal"},
		Base:      [6]int{30, 56, 35, 25, 35, 72},
		Level:     5,
		Learned:   map[string]bool{},
	}
	for i := range c.IVs {
		c.IVs[i] = creature.PlayerIV
	}
	creature.PadMoves(c)
	c.HP = c.MaxHP()
	return c
}

func TestPartyAdd_OverflowsToStorage(t *testing.T) {
	p := &Party{}
	for i := 0; i < battle.MaxTeam; i++ {
		assert.True(t, p.Add(member(i+1)), "slot %d should join the team", i)
	}
	assert.False(t, p.Add(member(7)), "a full team overflows to storage")
	assert.Len(t, p.Team, battle.MaxTeam)
	assert.Len(t, p.Storage, 1)
}

func TestSwitchActive(t *testing.T) {
	p := &Party{Team: []*creature.Creature{member(1), member(2), member(3)}}
	p.Team[2].HP = 0

	assert.ErrorIs(t, p.SwitchActive(9), ErrBadIndex)
	assert.ErrorIs(t, p.SwitchActive(2), ErrFainted)
	assert.ErrorIs(t, p.SwitchActive(0), ErrAlreadyActive)

	require.NoError(t, p.SwitchActive(1))
	assert.Equal(t, 1, p.Active)
}

func TestHealAllAndHasUsable(t *testing.T) {
	p := &Party{Team: []*creature.Creature{member(1), member(2)}}
	p.Team[0].HP = 0
	p.Team[1].HP = 0
	assert.False(t, p.HasUsable())

	p.HealAll()
	assert.True(t, p.HasUsable())
	for _, c := range p.Team {
		assert.Equal(t, c.MaxHP(), c.HP)
	}
}

func TestPromoteDemote(t *testing.T) {
	p := &Party{
		Team:    []*creature.Creature{member(1), member(2)},
		Storage: []*creature.Creature{member(3)},
	}

	require.NoError(t, p.Promote(0))
	assert.Len(t, p.Team, 3)
	assert.Empty(t, p.Storage)

	require.NoError(t, p.Demote(2))
	assert.Len(t, p.Team, 2)
	assert.Len(t, p.Storage, 1)
}

func TestDemote_GuardsActiveAndLast(t *testing.T) {
	p := &Party{Team: []*creature.Creature{member(1)}}
	assert.ErrorIs(t, p.Demote(0), ErrEmptyTeam)

	p.Team = append(p.Team, member(2))
	assert.ErrorIs(t, p.Demote(0), ErrAlreadyActive)
}

func TestDemote_AdjustsActiveIndex(t *testing.T) {
	p := &Party{Team: []*creature.Creature{member(1), member(2), member(3)}, Active: 2}

	require.NoError(t, p.Demote(0))
	assert.Equal(t, 1, p.Active, "active index follows the shifted slice")
	assert.Equal(t, 3, p.Team[p.Active].SpeciesID)
}

func TestPromote_FullTeam(t *testing.T) {
	p := &Party{Storage: []*creature.Creature{member(9)}}
	for i := 0; i < battle.MaxTeam; i++ {
		p.Add(member(i + 1))
	}
	assert.Error(t, p.Promote(0))
}

func TestDistinctSpeciesAndLegendary(t *testing.T) {
	p := &Party{
		Team:    []*creature.Creature{member(1), member(1), member(4)},
		Storage: []*creature.Creature{member(150)},
	}
	assert.Equal(t, 3, p.DistinctSpecies())
	assert.True(t, p.OwnsLegendary(), "mewtwo is a legendary")

	p.Storage = nil
	assert.False(t, p.OwnsLegendary())
}
