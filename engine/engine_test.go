package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/nathoo/mysticcastle/engine/events"
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/loader"
	"github.com/nathoo/mysticcastle/types"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// newEngine starts a session on the embedded MysticCastle world with a
// fixed clock.
func newEngine(t *testing.T) *Engine {
	t.Helper()
	defs, err := loader.Default()
	if err != nil {
		t.Fatalf("loading default world: %v", err)
	}
	return NewWithClock(defs, func() time.Time { return epoch })
}

// play runs each command in order and returns the last result.
func play(t *testing.T, eng *Engine, cmds ...string) types.Result {
	t.Helper()
	var res types.Result
	for _, c := range cmds {
		res = eng.Step(c)
	}
	return res
}

func outputContains(output []string, substr string) bool {
	for _, line := range output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func hasEvent(res types.Result, eventType string) bool {
	for _, e := range res.Events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func TestStep_GoNorth_MovesPlayer(t *testing.T) {
	eng := newEngine(t)
	res := eng.Step("go north")

	if eng.State.CurrentRoom != "courtyard" {
		t.Errorf("expected courtyard, got %q", eng.State.CurrentRoom)
	}
	if !outputContains(res.Output, "Overgrown Courtyard") {
		t.Errorf("expected room name in output, got %v", res.Output)
	}
	if !hasEvent(res, events.RoomEntered) {
		t.Error("expected room_entered event")
	}
}

func TestStep_GoInvalidDirection(t *testing.T) {
	eng := newEngine(t)
	res := eng.Step("west")

	if eng.State.CurrentRoom != "entrance" {
		t.Errorf("player should not have moved, got %q", eng.State.CurrentRoom)
	}
	if !outputContains(res.Output, "You can't go west from here.") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
	if eng.State.Moves != 0 {
		t.Errorf("failed move should not count, got %d", eng.State.Moves)
	}
}

func TestStep_GoWithoutDirection(t *testing.T) {
	eng := newEngine(t)
	if res := eng.Step("go"); !outputContains(res.Output, "Go where?") {
		t.Errorf("expected prompt, got %v", res.Output)
	}
}

func TestStep_EmptyInput(t *testing.T) {
	eng := newEngine(t)
	res := eng.Step("   ")
	if len(res.Output) != 1 || res.Output[0] != "What do you want to do?" {
		t.Errorf("unexpected output: %v", res.Output)
	}
}

func TestStep_UnknownVerb(t *testing.T) {
	eng := newEngine(t)
	res := eng.Step("dance wildly")
	if !outputContains(res.Output, "I don't understand that command.") {
		t.Errorf("unexpected output: %v", res.Output)
	}
}

func TestStep_Look_DescribesRoom(t *testing.T) {
	eng := newEngine(t)
	res := play(t, eng, "n", "look")

	if res.Output[0] != "Overgrown Courtyard" {
		t.Errorf("expected room name first, got %q", res.Output[0])
	}
	if !outputContains(res.Output, "You see: rusty key.") {
		t.Errorf("expected item list, got %v", res.Output)
	}
	if !outputContains(res.Output, "Exits: east, north, south, west.") {
		t.Errorf("expected sorted exits, got %v", res.Output)
	}
}

func TestStep_LookItem(t *testing.T) {
	eng := newEngine(t)
	res := play(t, eng, "n", "examine the rusty key")
	if !outputContains(res.Output, "An old iron key") {
		t.Errorf("expected item description, got %v", res.Output)
	}
}

func TestStep_TakeAndDrop(t *testing.T) {
	eng := newEngine(t)
	res := play(t, eng, "n", "take rusty key")

	if !state.HasItem(eng.State, "rusty key") {
		t.Fatal("expected rusty key in inventory")
	}
	if !hasEvent(res, events.ItemTaken) {
		t.Error("expected item_taken event")
	}
	if items := state.RoomItems(eng.State, eng.Defs, "courtyard"); len(items) != 0 {
		t.Errorf("courtyard should be empty, got %v", items)
	}

	res = eng.Step("take rusty key")
	if !outputContains(res.Output, "You already have that.") {
		t.Errorf("unexpected output: %v", res.Output)
	}

	play(t, eng, "n", "drop rusty key")
	if state.HasItem(eng.State, "rusty key") {
		t.Error("rusty key should have been dropped")
	}
	if items := state.RoomItems(eng.State, eng.Defs, "greathall"); !contains(items, "rusty key") {
		t.Errorf("great hall should hold the key, got %v", items)
	}
}

func TestStep_TakeMissing(t *testing.T) {
	eng := newEngine(t)
	if res := eng.Step("take crown of whispers"); !outputContains(res.Output, "You don't see that here.") {
		t.Errorf("unexpected output: %v", res.Output)
	}
	if res := eng.Step("drop brass lamp"); !outputContains(res.Output, "You don't have that.") {
		t.Errorf("unexpected output: %v", res.Output)
	}
}

func TestStep_Inventory(t *testing.T) {
	eng := newEngine(t)
	if res := eng.Step("i"); !outputContains(res.Output, "You are carrying nothing.") {
		t.Errorf("unexpected output: %v", res.Output)
	}
	res := play(t, eng, "n", "get rusty key", "inventory")
	if !outputContains(res.Output, "You are carrying: rusty key.") {
		t.Errorf("unexpected output: %v", res.Output)
	}
}

func TestScenario_LampPath(t *testing.T) {
	eng := newEngine(t)
	play(t, eng, "n", "take rusty key", "n", "e", "take brass lamp", "use brass lamp")

	stats := eng.Stats()
	if stats.InventoryCount != 2 {
		t.Errorf("expected 2 items, got %d", stats.InventoryCount)
	}
	if stats.Moves != 4 {
		t.Errorf("expected 4 moves, got %d", stats.Moves)
	}
	if !eng.State.LampLit {
		t.Error("expected lamp lit")
	}
	if eng.State.CurrentRoom != "kitchen" {
		t.Errorf("expected kitchen, got %q", eng.State.CurrentRoom)
	}
}

func TestStep_DarkCellar(t *testing.T) {
	eng := newEngine(t)
	res := play(t, eng, "n", "w", "d")

	if !outputContains(res.Output, "Complete darkness") {
		t.Errorf("expected dark description, got %v", res.Output)
	}
	if outputContains(res.Output, "ancient wine") {
		t.Error("items should be hidden in the dark")
	}
	if res := eng.Step("take ancient wine"); !outputContains(res.Output, "too dark") {
		t.Errorf("expected darkness refusal, got %v", res.Output)
	}
	if res := eng.Step("search loose stone"); state.HasItem(eng.State, "crystal key") {
		t.Errorf("secret should not be found in the dark: %v", res.Output)
	}
}

func TestStep_LitCellarSecret(t *testing.T) {
	eng := newEngine(t)
	res := play(t, eng, "n", "n", "e", "take lamp", "take brass lamp", "use brass lamp", "w", "s", "w", "d")

	if !outputContains(res.Output, "Your lamp reveals") {
		t.Errorf("expected lit description, got %v", res.Output)
	}
	if !outputContains(res.Output, "You see: ancient wine.") {
		t.Errorf("expected items when lit, got %v", res.Output)
	}

	moves := eng.State.Moves
	res = eng.Step("search loose stone")
	if !state.HasItem(eng.State, "crystal key") {
		t.Fatalf("expected crystal key, got %v", res.Output)
	}
	if !hasEvent(res, events.SecretFound) {
		t.Error("expected secret_found event")
	}
	if eng.State.Moves != moves+1 {
		t.Errorf("first discovery should count as a move")
	}

	res = eng.Step("look behind the loose stone")
	if !outputContains(res.Output, "Nothing new here.") {
		t.Errorf("expected nothing new, got %v", res.Output)
	}
	if eng.State.Moves != moves+1 {
		t.Errorf("repeat search should not count as a move")
	}
	if eng.Stats().SecretsFound != 1 {
		t.Errorf("expected 1 secret, got %d", eng.Stats().SecretsFound)
	}
}

func TestStep_LockedBedroom(t *testing.T) {
	eng := newEngine(t)
	res := play(t, eng, "n", "n", "u", "e")

	if eng.State.CurrentRoom != "gallery" {
		t.Errorf("expected to stay in gallery, got %q", eng.State.CurrentRoom)
	}
	if !outputContains(res.Output, "The bedroom door is locked with an ornate crystal lock.") {
		t.Errorf("expected lock message, got %v", res.Output)
	}
}

// walkthrough is the full path from the entrance to the vault with the crown.
var walkthrough = []string{
	"n", "n", "e", "take brass lamp", "use brass lamp",
	"w", "s", "w", "d", "search loose stone",
	"u", "e", "n", "u", "n", "take spell book",
	"u", "take crown of whispers", "d", "s",
	"e", "open wardrobe", "n",
}

func TestScenario_Victory(t *testing.T) {
	eng := newEngine(t)
	var won int
	eng.Subscribe(events.GameWon, func(types.Event) { won++ })

	var unlocked []string
	for _, cmd := range walkthrough {
		res := eng.Step(cmd)
		for _, e := range res.Events {
			if e.Type == events.DoorUnlocked {
				unlocked = append(unlocked, e.Data["room"].(string))
			}
		}
		if cmd == "open wardrobe" && !outputContains(res.Output, "A new way opens to the north.") {
			t.Errorf("expected new exit announcement, got %v", res.Output)
		}
	}

	if eng.State.CurrentRoom != "vault" {
		t.Fatalf("expected vault, got %q", eng.State.CurrentRoom)
	}
	if !eng.State.GameWon {
		t.Fatal("expected game won")
	}
	if won != 1 {
		t.Errorf("expected one game_won event, got %d", won)
	}
	if len(unlocked) != 2 || unlocked[0] != "tower" || unlocked[1] != "bedroom" {
		t.Errorf("unexpected unlock order: %v", unlocked)
	}

	stats := eng.Stats()
	if !stats.HasWon || !stats.HasCrown || stats.SecretsFound != 2 || stats.TotalSecrets != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	// Play continues after victory without a second banner.
	res := eng.Step("out")
	if eng.State.CurrentRoom != "bedroom" || outputContains(res.Output, "Victory") {
		t.Errorf("unexpected post-victory output: %v", res.Output)
	}
	res = eng.Step("n")
	if outputContains(res.Output, "Victory") || won != 1 {
		t.Error("victory banner should appear only once")
	}
	if !eng.State.GameWon {
		t.Error("GameWon must stay set")
	}
}

func TestStep_CrownInTowerIsNotVictory(t *testing.T) {
	eng := newEngine(t)
	play(t, eng, "n", "n", "u", "n", "take spell book", "u", "take crown of whispers")
	if !state.HasItem(eng.State, "crown of whispers") {
		t.Fatal("expected crown in inventory")
	}
	if eng.State.GameWon {
		t.Error("holding the crown outside the vault should not win")
	}
}

func TestScenario_Dragon(t *testing.T) {
	eng := newEngine(t)
	play(t, eng, "n", "n", "e", "take brass lamp", "use brass lamp", "w", "s", "w", "d", "take ancient wine", "d", "d")

	if eng.State.CurrentRoom != "lair" {
		t.Fatalf("expected lair, got %q", eng.State.CurrentRoom)
	}

	res := eng.Step("take dragon scale")
	if state.HasItem(eng.State, "dragon scale") {
		t.Errorf("hoard should be guarded: %v", res.Output)
	}
	res = eng.Step("offer ancient wine")
	if !state.HasItem(eng.State, "ancient wine") || !outputContains(res.Output, "strangers") {
		t.Errorf("unfriendly dragon should refuse: %v", res.Output)
	}

	play(t, eng, "talk", "talk")
	if eng.State.DragonFriendly {
		t.Fatal("dragon should not be friendly after two lines")
	}
	res = eng.Step("talk to dragon")
	if !eng.State.DragonFriendly || !hasEvent(res, events.DragonBefriended) {
		t.Fatalf("third line should befriend the dragon: %v", res.Output)
	}

	play(t, eng, "talk", "talk", "talk")
	if eng.State.DragonDialogue != len(eng.Defs.Dragon.Lines)-1 {
		t.Errorf("dialogue counter should saturate, got %d", eng.State.DragonDialogue)
	}

	play(t, eng, "take dragon scale")
	if !state.HasItem(eng.State, "dragon scale") {
		t.Error("friendly dragon should allow taking the scale")
	}

	res = eng.Step("give ancient wine")
	if state.HasItem(eng.State, "ancient wine") || !state.HasItem(eng.State, "dragon tooth") {
		t.Errorf("expected wine exchanged for tooth: %v, inventory %v", res.Output, eng.State.Inventory)
	}
	if !hasEvent(res, events.GiftReceived) {
		t.Error("expected gift_received event")
	}
	if !eng.Stats().DragonFriendly {
		t.Error("stats should report the dragon friendly")
	}
}

func TestStep_TalkWithoutDragon(t *testing.T) {
	eng := newEngine(t)
	if res := eng.Step("talk"); !outputContains(res.Output, "no one here") {
		t.Errorf("unexpected output: %v", res.Output)
	}
	if eng.State.Moves != 0 {
		t.Error("talking to no one should not count")
	}
}

func TestStep_SaveLoadVerbsRouted(t *testing.T) {
	eng := newEngine(t)
	if res := eng.Step("save"); !outputContains(res.Output, "/save") {
		t.Errorf("unexpected output: %v", res.Output)
	}
}

func TestSessionIsolation(t *testing.T) {
	a := newEngine(t)
	b := newEngine(t)

	play(t, a, "n", "take rusty key", "n", "e", "take brass lamp", "use brass lamp")

	if b.State.CurrentRoom != "entrance" || len(b.State.Inventory) != 0 || b.State.LampLit {
		t.Errorf("session b was affected: %+v", b.State)
	}
	if items := state.RoomItems(b.State, b.Defs, "courtyard"); !contains(items, "rusty key") {
		t.Errorf("rusty key should still be in b's courtyard, got %v", items)
	}
	if b.Stats().Moves != 0 {
		t.Errorf("expected 0 moves in b, got %d", b.Stats().Moves)
	}
}

func TestStats_MinutesPlayed(t *testing.T) {
	eng := newEngine(t)
	now := epoch.Add(5*time.Minute + 59*time.Second)
	eng.Now = func() time.Time { return now }
	if got := eng.Stats().MinutesPlayed; got != 5 {
		t.Errorf("expected 5 minutes, got %d", got)
	}
}

func contains(items []string, name string) bool {
	for _, it := range items {
		if it == name {
			return true
		}
	}
	return false
}

func TestScenario_DragonKeepsNoCrown(t *testing.T) {
	eng := newEngine(t)
	eng.State.CurrentRoom = "lair"
	eng.State.Inventory = []string{"crown of whispers"}
	play(t, eng, "talk", "talk", "talk")
	if !eng.State.DragonFriendly {
		t.Fatal("expected a friendly dragon")
	}

	res := eng.Step("offer crown of whispers")
	if !outputContains(res.Output, "pushes the crown of whispers back") {
		t.Errorf("unexpected output: %v", res.Output)
	}
	if !state.HasItem(eng.State, "crown of whispers") || state.HasItem(eng.State, "dragon tooth") {
		t.Errorf("crown must be kept and no gift given, inventory %v", eng.State.Inventory)
	}
	if eng.State.DragonGift {
		t.Error("gift should still be available")
	}
}

func TestScenario_LampDroppedInDarkCellar(t *testing.T) {
	eng := newEngine(t)
	eng.State.CurrentRoom = "cellar"
	eng.State.Inventory = []string{"brass lamp"}

	play(t, eng, "use brass lamp", "drop brass lamp")
	if eng.State.LampLit {
		t.Error("dropping the lamp should put it out")
	}

	res := eng.Step("take brass lamp")
	if !state.HasItem(eng.State, "brass lamp") {
		t.Fatalf("lamp should be found by touch: %v", res.Output)
	}
	if res := eng.Step("take ancient wine"); !outputContains(res.Output, "too dark") {
		t.Errorf("other items still need light: %v", res.Output)
	}

	play(t, eng, "use brass lamp", "search loose stone")
	if !state.HasItem(eng.State, "crystal key") {
		t.Errorf("crystal key should be reachable again, inventory %v", eng.State.Inventory)
	}
}
