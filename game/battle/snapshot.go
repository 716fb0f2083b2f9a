package battle

// Snapshot is the full client-facing view of a session.
type Snapshot struct {
	State           State               `json:"state"`
	Round           int                 `json:"round"`
	Defeated        int                 `json:"defeated"`
	TotalOpponents  int                 `json:"total_opponents"`
	ActiveIndex     int                 `json:"active_index"`
	Player          *CombatantSnapshot  `json:"player,omitempty"`
	Opponent        *CombatantSnapshot  `json:"opponent,omitempty"`
	Team            []CombatantSnapshot `json:"team"`
	RecoveryOptions []RecoveryOption    `json:"recovery_options,omitempty"`
	Log             []string            `json:"log"`
}

// Snapshot renders the current session state for transport.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:          s.state,
		Round:          s.round,
		Defeated:       s.defeated,
		TotalOpponents: s.cfg.TotalOpponents,
		ActiveIndex:    s.cfg.ActiveIndex,
		Log:            s.Messages(),
	}
	for _, c := range s.cfg.Team {
		snap.Team = append(snap.Team, SnapshotCombatant(c))
	}
	if s.state != StateSetup {
		p := SnapshotCombatant(s.Active())
		snap.Player = &p
	}
	if s.opponent != nil {
		o := SnapshotCombatant(s.opponent)
		snap.Opponent = &o
	}
	if s.state == StateAwaitingRecovery {
		snap.RecoveryOptions = s.RecoveryOptions()
	}
	return snap
}
