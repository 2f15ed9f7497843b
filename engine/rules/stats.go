package rules

import (
	"time"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// Stats summarizes a session as of now.
func Stats(defs *state.Defs, s *types.State, now time.Time) types.Stats {
	minutes := 0
	if elapsed := now.Sub(s.StartTime); elapsed > 0 {
		minutes = int(elapsed / time.Minute)
	}
	return types.Stats{
		Moves:          s.Moves,
		InventoryCount: len(s.Inventory),
		SecretsFound:   len(s.SecretsFound),
		TotalSecrets:   defs.TotalSecrets(),
		HasWon:         s.GameWon,
		HasCrown:       state.HasGoal(s, defs),
		DragonFriendly: s.DragonFriendly,
		MinutesPlayed:  minutes,
	}
}
