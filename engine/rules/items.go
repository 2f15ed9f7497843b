package rules

import "github.com/nathoo/mysticcastle/engine/state"

// Item predicates. Each reports found=false for names that are not items,
// keeping "no such item" distinct from "item without the property".

// IsValidItem returns true if the name is a defined item.
func IsValidItem(defs *state.Defs, name string) bool {
	_, ok := defs.Item(name)
	return ok
}

// IsTakeable reports whether an item can be picked up.
func IsTakeable(defs *state.Defs, name string) (takeable, found bool) {
	it, ok := defs.Item(name)
	return it.Takeable, ok
}

// IsLightSource reports whether an item gives light.
func IsLightSource(defs *state.Defs, name string) (light, found bool) {
	it, ok := defs.Item(name)
	return it.IsLight, ok
}

// IsGoalItem reports whether an item wins the game.
func IsGoalItem(defs *state.Defs, name string) (goal, found bool) {
	it, ok := defs.Item(name)
	return it.IsGoal, ok
}

// ItemDescription returns an item's description.
func ItemDescription(defs *state.Defs, name string) (string, bool) {
	it, ok := defs.Item(name)
	if !ok {
		return "", false
	}
	return it.Description, true
}
