package rules

import (
	"sort"
	"strings"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

const nothingNew = "You've already searched there. Nothing new here."

// FindSecret matches a noun against the secret keywords of a room. The noun
// may carry a leading phrase ("at the wardrobe", "behind loose stone").
func FindSecret(defs *state.Defs, roomID, noun string) (string, bool) {
	room, ok := defs.Room(roomID)
	if !ok || noun == "" {
		return "", false
	}
	keywords := make([]string, 0, len(room.Secrets))
	for kw := range room.Secrets {
		keywords = append(keywords, kw)
	}
	// Longest keyword first so "loose stone" wins over "stone".
	sort.Slice(keywords, func(i, j int) bool { return len(keywords[i]) > len(keywords[j]) })
	for _, kw := range keywords {
		if noun == kw || strings.HasSuffix(noun, " "+kw) {
			return kw, true
		}
	}
	return "", false
}

// TriggerSecret fires the secret named keyword in roomID. The first trigger
// records it, grants its item and opens its room. A one-time secret that
// was already found yields a neutral "nothing new" result.
func TriggerSecret(defs *state.Defs, s *types.State, roomID, keyword string) types.SecretResult {
	room, ok := defs.Room(roomID)
	if !ok {
		return types.SecretResult{}
	}
	sec, ok := room.Secrets[keyword]
	if !ok {
		return types.SecretResult{}
	}

	key := types.SecretKey{Room: roomID, Secret: keyword}
	if state.SecretFound(s, key) {
		if sec.OneTime {
			return types.SecretResult{Found: true, AlreadyFound: true, Text: nothingNew}
		}
		return types.SecretResult{Found: true, Text: sec.Description}
	}

	if s.SecretsFound == nil {
		s.SecretsFound = map[types.SecretKey]bool{}
	}
	s.SecretsFound[key] = true

	res := types.SecretResult{Found: true, Text: sec.Description}
	if sec.Gives != "" && state.AddItem(s, sec.Gives) {
		res.Gave = sec.Gives
	}
	if sec.OpensRoom != "" {
		if s.OpenedRooms == nil {
			s.OpenedRooms = map[string]bool{}
		}
		s.OpenedRooms[sec.OpensRoom] = true
		res.Opened = sec.OpensRoom
	}
	return res
}
