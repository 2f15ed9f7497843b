package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/mysticcastle/engine/parser"
	"github.com/nathoo/mysticcastle/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity and consistency.
// Rooms are visited in sorted order so messages are stable.
func validate(defs *state.Defs) error {
	ve := check(defs)

	for _, w := range ve.Warnings {
		slog.Warn("world validation", "warning", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func check(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if defs.Game.Start == "" {
		ve.errorf("Game.start is required")
	} else if _, ok := defs.Rooms[defs.Game.Start]; !ok {
		ve.errorf("start room %q not found in defined rooms", defs.Game.Start)
	}

	placed := map[string]string{} // item → room holding it
	hasDark := false
	hasDragonRoom := false

	for _, roomID := range defs.RoomIDs() {
		room := defs.Rooms[roomID]

		for dir, target := range room.Exits {
			if !parser.IsDirection(dir) {
				ve.errorf("room %q exit %q is not a direction", roomID, dir)
			}
			if _, ok := defs.Rooms[target]; !ok {
				ve.errorf("room %q exit %q points to undefined room %q", roomID, dir, target)
			}
		}

		switch {
		case room.Locked && (room.KeyRequired == "" || room.LockedMessage == ""):
			ve.errorf("locked room %q needs both key and locked_message", roomID)
		case !room.Locked && (room.KeyRequired != "" || room.LockedMessage != ""):
			ve.errorf("room %q has key or locked_message but is not locked", roomID)
		}
		if room.KeyRequired != "" {
			if _, ok := defs.Items[room.KeyRequired]; !ok {
				ve.errorf("room %q key %q is not a defined item", roomID, room.KeyRequired)
			}
		}

		for _, it := range room.Items {
			if _, ok := defs.Items[it]; !ok {
				ve.errorf("room %q holds undefined item %q", roomID, it)
				continue
			}
			if other, dup := placed[it]; dup {
				ve.errorf("item %q placed in both %q and %q", it, other, roomID)
				continue
			}
			placed[it] = roomID
		}

		for kw, sec := range room.Secrets {
			if sec.Description == "" {
				ve.errorf("room %q secret %q has no description", roomID, kw)
			}
			if sec.Gives != "" {
				if _, ok := defs.Items[sec.Gives]; !ok {
					ve.errorf("room %q secret %q gives undefined item %q", roomID, kw, sec.Gives)
				}
			}
			if sec.OpensRoom != "" {
				if _, ok := defs.Rooms[sec.OpensRoom]; !ok {
					ve.errorf("room %q secret %q opens undefined room %q", roomID, kw, sec.OpensRoom)
				}
			}
		}

		if room.Dark {
			hasDark = true
			if room.DescriptionLit == "" {
				ve.warnf("dark room %q has no description_lit", roomID)
			}
		}
		if room.HasDragon {
			hasDragonRoom = true
		}
	}

	d := defs.Dragon
	if hasDragonRoom && len(d.Lines) == 0 {
		ve.errorf("a room has a dragon but no Dragon{} lines are defined")
	}
	if len(d.Lines) > 0 && (d.FriendlyIndex < 0 || d.FriendlyIndex >= len(d.Lines)) {
		ve.errorf("Dragon friendly_index %d out of range for %d lines", d.FriendlyIndex, len(d.Lines))
	}
	if d.Gift != "" {
		if _, ok := defs.Items[d.Gift]; !ok {
			ve.errorf("Dragon gift %q is not a defined item", d.Gift)
		}
	}

	var hasGoal, hasLight bool
	for _, name := range defs.ItemNames() {
		it := defs.Items[name]
		if it.IsLight {
			hasLight = true
		}
		if !it.IsGoal {
			continue
		}
		hasGoal = true
		if _, ok := placed[name]; !ok && !obtainable(defs, name) {
			ve.warnf("goal item %q is not placed in any room", name)
		}
	}
	if !hasGoal {
		ve.warnf("no goal item defined; the game cannot be won")
	}
	if hasDark && !hasLight {
		ve.warnf("dark rooms exist but no light source is defined")
	}

	return ve
}

// obtainable reports whether an item can be acquired outside room lists,
// from a secret or as the dragon's gift.
func obtainable(defs *state.Defs, name string) bool {
	if defs.Dragon.Gift == name {
		return true
	}
	for _, room := range defs.Rooms {
		for _, sec := range room.Secrets {
			if sec.Gives == name {
				return true
			}
		}
	}
	return false
}
