package rules

import (
	"fmt"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// Move tries to walk the player in direction. On failure the state is left
// untouched and the result carries the refusal text.
func Move(defs *state.Defs, s *types.State, direction string) types.MoveResult {
	from := s.CurrentRoom
	target, ok := ExitRoom(defs, s, from, direction)
	if !ok {
		return types.MoveResult{From: from, Message: fmt.Sprintf("You can't go %s from here.", direction)}
	}

	access := CheckAccess(defs, s, target)
	if !access.Accessible {
		return types.MoveResult{From: from, Message: access.Message}
	}

	res := types.MoveResult{Moved: true, From: from, To: target}
	if access.Unlocked && !s.UnlockedRooms[target] {
		if s.UnlockedRooms == nil {
			s.UnlockedRooms = map[string]bool{}
		}
		s.UnlockedRooms[target] = true
		res.Unlocked = true
		res.Key = access.Key
	}

	s.CurrentRoom = target
	s.Moves++
	res.Won = CheckVictory(defs, s)
	return res
}

// CheckVictory marks the game won when the player stands in a victory room
// holding a goal item. It returns true only on the turn the game is won;
// once set, GameWon is never cleared.
func CheckVictory(defs *state.Defs, s *types.State) bool {
	if s.GameWon {
		return false
	}
	room, ok := defs.Room(s.CurrentRoom)
	if !ok || !room.IsVictory {
		return false
	}
	if !state.HasGoal(s, defs) {
		return false
	}
	s.GameWon = true
	return true
}
