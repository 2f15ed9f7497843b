// Package rules answers visibility, access and progression questions by
// combining the immutable world definitions with a session's state. Query
// functions never mutate state; the mutating ones are Move, TriggerSecret
// and CheckVictory.
package rules

import (
	"sort"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// CanSee reports whether the player can see inside a room. Rooms that are
// not dark are always visible; a dark room needs a lit light source in hand.
// Unknown rooms are not visible.
func CanSee(defs *state.Defs, s *types.State, roomID string) bool {
	room, ok := defs.Room(roomID)
	if !ok {
		return false
	}
	if !room.Dark {
		return true
	}
	return s.LampLit && state.HasLight(s, defs)
}

// CheckAccess decides whether a room may be entered. A locked room is
// accessible only while its key is held, and the result names that key.
func CheckAccess(defs *state.Defs, s *types.State, roomID string) types.Access {
	room, ok := defs.Room(roomID)
	if !ok {
		return types.Access{Message: "That room doesn't exist."}
	}
	if !room.Locked {
		return types.Access{Accessible: true}
	}
	if state.HasItem(s, room.KeyRequired) {
		return types.Access{Accessible: true, Unlocked: true, Key: room.KeyRequired}
	}
	return types.Access{Message: room.LockedMessage}
}

// ExitRoom resolves the room reached by going direction from roomID.
// Exits into a sealed room stay hidden until a secret opens it.
func ExitRoom(defs *state.Defs, s *types.State, roomID, direction string) (string, bool) {
	room, ok := defs.Room(roomID)
	if !ok {
		return "", false
	}
	target, ok := room.Exits[direction]
	if !ok {
		return "", false
	}
	if defs.Sealed(target) && !s.OpenedRooms[target] {
		return "", false
	}
	return target, true
}

// VisibleExits returns the sorted directions that currently lead somewhere.
func VisibleExits(defs *state.Defs, s *types.State, roomID string) []string {
	room, ok := defs.Room(roomID)
	if !ok {
		return nil
	}
	dirs := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		if _, ok := ExitRoom(defs, s, roomID, dir); ok {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
