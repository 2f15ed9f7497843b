// Package state manages the mutable game state and the immutable world
// definitions it is layered on (per-session overrides shadow base definitions).
package state

import (
	"sort"
	"time"

	"github.com/nathoo/mysticcastle/types"
)

// Defs holds the immutable game definitions loaded from Lua. A Defs value is
// shared by every session and must not be modified after loading.
type Defs struct {
	Game   types.GameDef
	Rooms  map[string]types.Room
	Items  map[string]types.Item
	Dragon types.DragonDef
}

// Room returns the room with the given ID.
func (d *Defs) Room(id string) (types.Room, bool) {
	r, ok := d.Rooms[id]
	return r, ok
}

// Item returns the item with the given name.
func (d *Defs) Item(name string) (types.Item, bool) {
	it, ok := d.Items[name]
	return it, ok
}

// RoomIDs returns every room ID in sorted order.
func (d *Defs) RoomIDs() []string {
	ids := make([]string, 0, len(d.Rooms))
	for id := range d.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ItemNames returns every item name in sorted order.
func (d *Defs) ItemNames() []string {
	names := make([]string, 0, len(d.Items))
	for name := range d.Items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalSecrets counts the secrets defined across all rooms.
func (d *Defs) TotalSecrets() int {
	n := 0
	for _, r := range d.Rooms {
		n += len(r.Secrets)
	}
	return n
}

// Sealed reports whether some secret opens the given room, meaning it stays
// hidden until that secret is found.
func (d *Defs) Sealed(roomID string) bool {
	for _, r := range d.Rooms {
		for _, sec := range r.Secrets {
			if sec.OpensRoom == roomID {
				return true
			}
		}
	}
	return false
}

// NewState creates a fresh game state from definitions.
func NewState(defs *Defs, now time.Time) *types.State {
	return &types.State{
		CurrentRoom:   defs.Game.Start,
		Inventory:     []string{},
		RoomItems:     map[string][]string{},
		SecretsFound:  map[types.SecretKey]bool{},
		OpenedRooms:   map[string]bool{},
		UnlockedRooms: map[string]bool{},
		StartTime:     now,
	}
}

// HasItem returns true if the player has the given item in inventory.
func HasItem(s *types.State, name string) bool {
	for _, it := range s.Inventory {
		if it == name {
			return true
		}
	}
	return false
}

// AddItem puts an item in the inventory. Returns false if it was already held.
func AddItem(s *types.State, name string) bool {
	if HasItem(s, name) {
		return false
	}
	s.Inventory = append(s.Inventory, name)
	return true
}

// RemoveItem takes an item out of the inventory. Returns false if it was not held.
func RemoveItem(s *types.State, name string) bool {
	for i, it := range s.Inventory {
		if it == name {
			s.Inventory = append(s.Inventory[:i:i], s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// RoomItems returns the items currently in a room. The runtime override is
// used if one exists, otherwise the room's default list. The result is always
// a copy; callers may modify it freely. Unknown rooms return nil.
func RoomItems(s *types.State, defs *Defs, roomID string) []string {
	if items, ok := s.RoomItems[roomID]; ok {
		return append([]string{}, items...)
	}
	room, ok := defs.Rooms[roomID]
	if !ok {
		return nil
	}
	return append([]string{}, room.Items...)
}

// SetRoomItems replaces a room's item list, creating the override if needed.
func SetRoomItems(s *types.State, roomID string, items []string) {
	if s.RoomItems == nil {
		s.RoomItems = map[string][]string{}
	}
	s.RoomItems[roomID] = append([]string{}, items...)
}

// SecretFound reports whether a secret has already been triggered.
func SecretFound(s *types.State, key types.SecretKey) bool {
	return s.SecretsFound[key]
}

// SecretKeyString returns the legacy "<room>_<secret>" form of a key.
func SecretKeyString(key types.SecretKey) string {
	return key.Room + "_" + key.Secret
}

// HasGoal returns true if any held item is a goal item.
func HasGoal(s *types.State, defs *Defs) bool {
	for _, name := range s.Inventory {
		if it, ok := defs.Items[name]; ok && it.IsGoal {
			return true
		}
	}
	return false
}

// HasLight returns true if any held item is a light source.
func HasLight(s *types.State, defs *Defs) bool {
	for _, name := range s.Inventory {
		if it, ok := defs.Items[name]; ok && it.IsLight {
			return true
		}
	}
	return false
}
