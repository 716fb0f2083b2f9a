package roster

import (
	"errors"

	"github.com/pokechain/arena/catalog"
	"github.com/pokechain/arena/game/battle"
	"github.com/pokechain/arena/game/creature"
)

var (
	ErrBadIndex      = errors.New("roster: invalid team index")
	ErrFainted       = errors.New("roster: creature has fainted")
	ErrAlreadyActive = errors.New("roster: creature is already active")
	ErrEmptyTeam     = errors.New("roster: team is empty")
)

// Party is one profile's creatures: the battle team up to the cap, and
// unlimited overflow storage beyond it.
type Party struct {
	Team    []*creature.Creature
	Storage []*creature.Creature
	Active  int
}

// Add places a creature on the team if a slot is free, otherwise in
// storage. Returns true when it joined the team.
func (p *Party) Add(c *creature.Creature) bool {
	if len(p.Team) < battle.MaxTeam {
		p.Team = append(p.Team, c)
		return true
	}
	p.Storage = append(p.Storage, c)
	return false
}

// ActiveCreature returns the current battle lead.
func (p *Party) ActiveCreature() (*creature.Creature, error) {
	if p.Active < 0 || p.Active >= len(p.Team) {
		return nil, ErrEmptyTeam
	}
	return p.Team[p.Active], nil
}

// SwitchActive changes the battle lead. Fainted and already-active
// targets are distinct rejections. Free outside battle; mid-battle the
// battle session applies its own turn cost.
func (p *Party) SwitchActive(index int) error {
	if index < 0 || index >= len(p.Team) {
		return ErrBadIndex
	}
	if p.Team[index].IsFainted() {
		return ErrFainted
	}
	if index == p.Active {
		return ErrAlreadyActive
	}
	p.Active = index
	return nil
}

// HealAll restores the whole team's HP, PP, and status.
func (p *Party) HealAll() {
	for _, c := range p.Team {
		c.Restore()
	}
}

// HasUsable reports whether any team member can still fight.
func (p *Party) HasUsable() bool {
	for _, c := range p.Team {
		if !c.IsFainted() {
			return true
		}
	}
	return false
}

// Promote moves a storage creature onto the team if a slot is free.
func (p *Party) Promote(storageIndex int) error {
	if storageIndex < 0 || storageIndex >= len(p.Storage) {
		return ErrBadIndex
	}
	if len(p.Team) >= battle.MaxTeam {
		return errors.New("roster: team is full")
	}
	c := p.Storage[storageIndex]
	p.Storage = append(p.Storage[:storageIndex], p.Storage[storageIndex+1:]...)
	p.Team = append(p.Team, c)
	return nil
}

// Demote moves a team creature to storage. The last team member and
// the active lead stay put.
func (p *Party) Demote(teamIndex int) error {
	if teamIndex < 0 || teamIndex >= len(p.Team) {
		return ErrBadIndex
	}
	if len(p.Team) == 1 {
		return ErrEmptyTeam
	}
	if teamIndex == p.Active {
		return ErrAlreadyActive
	}
	c := p.Team[teamIndex]
	p.Team = append(p.Team[:teamIndex], p.Team[teamIndex+1:]...)
	p.Storage = append(p.Storage, c)
	if teamIndex < p.Active {
		p.Active--
	}
	return nil
}

// All returns team plus storage, team first.
func (p *Party) All() []*creature.Creature {
	out := make([]*creature.Creature, 0, len(p.Team)+len(p.Storage))
	out = append(out, p.Team...)
	return append(out, p.Storage...)
}

// DistinctSpecies counts unique species across team and storage.
func (p *Party) DistinctSpecies() int {
	seen := map[int]bool{}
	for _, c := range p.All() {
		seen[c.SpeciesID] = true
	}
	return len(seen)
}

// OwnsLegendary reports whether any owned creature is a legendary.
func (p *Party) OwnsLegendary() bool {
	for _, c := range p.All() {
		if catalog.LegendaryIDs[c.SpeciesID] {
			return true
		}
	}
	return false
}
