package battle

import "errors"

var (
	ErrNotInBattle      = errors.New("battle: no battle in progress")
	ErrBattleInProgress = errors.New("battle: a battle is already in progress")
	ErrWrongState       = errors.New("battle: command not valid in current state")
	ErrBadMoveSlot      = errors.New("battle: invalid move slot")
	ErrNoPP             = errors.New("battle: move has no PP left")
	ErrBadTeamIndex     = errors.New("battle: invalid team index")
	ErrTargetFainted    = errors.New("battle: target creature has fainted")
	ErrAlreadyActive    = errors.New("battle: creature is already active")
	ErrNoEligible       = errors.New("battle: no usable creature in team")
	ErrBadOption        = errors.New("battle: recovery option not available")
	ErrOpponentCount    = errors.New("battle: invalid opponent count")
	ErrUnknownItem      = errors.New("battle: unknown or unusable item")
)
