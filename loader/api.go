package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the world constructors as globals:
//
//	Game { title = "...", start = "..." }
//	Room "id" { name = "...", exits = { north = "..." } }
//	Item "name" { description = "..." }
//	Dragon { name = "...", lines = { "..." } }
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		if coll.game != nil {
			L.RaiseError("Game{} defined more than once")
		}
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { ... } is curried: Room("id") returns a function taking the table.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.rooms = append(coll.rooms, rawRoom{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.items = append(coll.items, rawItem{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	L.SetGlobal("Dragon", L.NewFunction(func(L *lua.LState) int {
		if coll.dragon != nil {
			L.RaiseError("Dragon{} defined more than once")
		}
		coll.dragon = L.CheckTable(1)
		return 0
	}))
}
