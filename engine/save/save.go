// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// SaveData is the JSON-serializable save format. Secrets are stored as a
// sorted list because JSON object keys cannot hold a struct.
type SaveData struct {
	Version        string              `json:"version"`
	Game           string              `json:"game"`
	CurrentRoom    string              `json:"current_room"`
	Inventory      []string            `json:"inventory"`
	Moves          int                 `json:"moves"`
	RoomItems      map[string][]string `json:"room_items"`
	SecretsFound   []types.SecretKey   `json:"secrets_found"`
	LampLit        bool                `json:"lamp_lit"`
	GameWon        bool                `json:"game_won"`
	OpenedRooms    map[string]bool     `json:"opened_rooms"`
	UnlockedRooms  map[string]bool     `json:"unlocked_rooms"`
	DragonDialogue int                 `json:"dragon_dialogue"`
	DragonFriendly bool                `json:"dragon_friendly"`
	DragonGift     bool                `json:"dragon_gift"`
	StartTime      time.Time           `json:"start_time"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *state.Defs) ([]byte, error) {
	secrets := make([]types.SecretKey, 0, len(s.SecretsFound))
	for key, found := range s.SecretsFound {
		if found {
			secrets = append(secrets, key)
		}
	}
	sort.Slice(secrets, func(i, j int) bool {
		return state.SecretKeyString(secrets[i]) < state.SecretKeyString(secrets[j])
	})

	data := SaveData{
		Version:        defs.Game.Version,
		Game:           defs.Game.Title,
		CurrentRoom:    s.CurrentRoom,
		Inventory:      s.Inventory,
		Moves:          s.Moves,
		RoomItems:      s.RoomItems,
		SecretsFound:   secrets,
		LampLit:        s.LampLit,
		GameWon:        s.GameWon,
		OpenedRooms:    s.OpenedRooms,
		UnlockedRooms:  s.UnlockedRooms,
		DragonDialogue: s.DragonDialogue,
		DragonFriendly: s.DragonFriendly,
		DragonGift:     s.DragonGift,
		StartTime:      s.StartTime,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Inventory == nil {
		sd.Inventory = []string{}
	}
	if sd.RoomItems == nil {
		sd.RoomItems = map[string][]string{}
	}
	if sd.OpenedRooms == nil {
		sd.OpenedRooms = map[string]bool{}
	}
	if sd.UnlockedRooms == nil {
		sd.UnlockedRooms = map[string]bool{}
	}
	return &sd, nil
}

// Validate checks that save data belongs to the world in defs: the game
// title matches, every room and item it names exists, and the inventory
// holds no item twice. All problems are reported together.
func Validate(sd *SaveData, defs *state.Defs) error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if sd.Game != defs.Game.Title {
		bad("save is for %q, not %q", sd.Game, defs.Game.Title)
	}
	if _, ok := defs.Room(sd.CurrentRoom); !ok {
		bad("unknown current room %q", sd.CurrentRoom)
	}

	held := make(map[string]bool, len(sd.Inventory))
	for _, name := range sd.Inventory {
		if _, ok := defs.Item(name); !ok {
			bad("unknown inventory item %q", name)
		}
		if held[name] {
			bad("inventory holds %q twice", name)
		}
		held[name] = true
	}

	for _, roomID := range sortedKeys(sd.RoomItems) {
		if _, ok := defs.Room(roomID); !ok {
			bad("items saved for unknown room %q", roomID)
		}
		for _, name := range sd.RoomItems[roomID] {
			if _, ok := defs.Item(name); !ok {
				bad("unknown item %q in room %q", name, roomID)
			}
		}
	}

	for _, roomID := range sortedKeys(sd.OpenedRooms) {
		if _, ok := defs.Room(roomID); !ok {
			bad("unknown opened room %q", roomID)
		}
	}
	for _, roomID := range sortedKeys(sd.UnlockedRooms) {
		if _, ok := defs.Room(roomID); !ok {
			bad("unknown unlocked room %q", roomID)
		}
	}
	for _, key := range sd.SecretsFound {
		if room, ok := defs.Room(key.Room); !ok {
			bad("secret in unknown room %q", key.Room)
		} else if _, ok := room.Secrets[key.Secret]; !ok {
			bad("unknown secret %q in room %q", key.Secret, key.Room)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid save: %w", errors.Join(errs...))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	s.CurrentRoom = sd.CurrentRoom
	s.Inventory = sd.Inventory
	s.Moves = sd.Moves
	s.RoomItems = sd.RoomItems
	s.SecretsFound = make(map[types.SecretKey]bool, len(sd.SecretsFound))
	for _, key := range sd.SecretsFound {
		s.SecretsFound[key] = true
	}
	s.LampLit = sd.LampLit
	s.GameWon = sd.GameWon
	s.OpenedRooms = sd.OpenedRooms
	s.UnlockedRooms = sd.UnlockedRooms
	s.DragonDialogue = sd.DragonDialogue
	s.DragonFriendly = sd.DragonFriendly
	s.DragonGift = sd.DragonGift
	s.StartTime = sd.StartTime
}

// DefaultName is used when the player saves or loads without a name.
const DefaultName = "quicksave"

// Path returns the file a named save lives in. Directory parts of name are
// dropped so a save can never escape dir.
func Path(dir, name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultName
	}
	return filepath.Join(dir, name+".json")
}

// WriteFile saves the session under name in dir and returns the path written.
func WriteFile(dir, name string, s *types.State, defs *state.Defs) (string, error) {
	data, err := Save(s, defs)
	if err != nil {
		return "", fmt.Errorf("encoding save: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating save directory: %w", err)
	}
	path := Path(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing save: %w", err)
	}
	return path, nil
}

// ReadFile loads the save called name from dir.
func ReadFile(dir, name string) (*SaveData, error) {
	data, err := os.ReadFile(Path(dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	sd, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	return sd, nil
}
