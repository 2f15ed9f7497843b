// Package loader loads Lua world content into Go structs at startup.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
	lua "github.com/yuin/gopher-lua"
)

// defaultFriendlyIndex is the dialogue line that wins the dragon over when
// a Dragon{} block does not say otherwise.
const defaultFriendlyIndex = 2

// rawRoom holds a room table before compilation.
type rawRoom struct {
	id    string
	table *lua.LTable
}

// rawItem holds an item table before compilation.
type rawItem struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	m := map[string]string{}
	if tbl == nil {
		return m
	}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// tableToStrings converts the array part of a Lua table to a []string,
// keeping order. Non-string entries are skipped.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	out := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Rooms: map[string]types.Room{},
		Items: map[string]types.Item{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.rooms {
		if _, dup := defs.Rooms[raw.id]; dup {
			return nil, fmt.Errorf("room %q defined more than once", raw.id)
		}
		defs.Rooms[raw.id] = compileRoom(raw)
	}

	for _, raw := range coll.items {
		if _, dup := defs.Items[raw.name]; dup {
			return nil, fmt.Errorf("item %q defined more than once", raw.name)
		}
		defs.Items[raw.name] = compileItem(raw)
	}

	if coll.dragon != nil {
		defs.Dragon = compileDragon(coll.dragon)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileRoom(raw rawRoom) types.Room {
	tbl := raw.table
	room := types.Room{
		ID:             raw.id,
		Name:           getString(tbl, "name"),
		Description:    getString(tbl, "description"),
		Dark:           getBool(tbl, "dark", false),
		DescriptionLit: getString(tbl, "description_lit"),
		Exits:          tableToStringMap(getTable(tbl, "exits")),
		Items:          tableToStrings(getTable(tbl, "items")),
		Locked:         getBool(tbl, "locked", false),
		LockedMessage:  getString(tbl, "locked_message"),
		KeyRequired:    getString(tbl, "key"),
		Secrets:        compileSecrets(getTable(tbl, "secrets")),
		IsVictory:      getBool(tbl, "victory", false),
	}
	if room.Name == "" {
		room.Name = raw.id
	}
	// dragon = "awake" both places the dragon and sets its mood.
	if ds := getString(tbl, "dragon"); ds != "" {
		room.HasDragon = true
		room.DragonState = ds
	}
	return room
}

func compileSecrets(tbl *lua.LTable) map[string]types.Secret {
	secrets := map[string]types.Secret{}
	if tbl == nil {
		return secrets
	}
	tbl.ForEach(func(k, v lua.LValue) {
		kw, ok := k.(lua.LString)
		if !ok {
			return
		}
		st, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		secrets[string(kw)] = types.Secret{
			Description: getString(st, "description"),
			Gives:       getString(st, "gives"),
			OpensRoom:   getString(st, "opens"),
			OneTime:     getBool(st, "one_time", true),
		}
	})
	return secrets
}

func compileItem(raw rawItem) types.Item {
	tbl := raw.table
	return types.Item{
		Name:        raw.name,
		Description: getString(tbl, "description"),
		Takeable:    getBool(tbl, "takeable", true),
		IsLight:     getBool(tbl, "light", false),
		IsGoal:      getBool(tbl, "goal", false),
	}
}

func compileDragon(tbl *lua.LTable) types.DragonDef {
	return types.DragonDef{
		Name:          getString(tbl, "name"),
		Lines:         tableToStrings(getTable(tbl, "lines")),
		FriendlyIndex: getInt(tbl, "friendly_index", defaultFriendlyIndex),
		Gift:          getString(tbl, "gift"),
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
