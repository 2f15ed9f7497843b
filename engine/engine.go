// Package engine provides the Step() driver that turns one line of player
// input into state changes and narration for a single session.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/nathoo/mysticcastle/engine/dialogue"
	"github.com/nathoo/mysticcastle/engine/events"
	"github.com/nathoo/mysticcastle/engine/parser"
	"github.com/nathoo/mysticcastle/engine/rules"
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// Engine holds the shared game definitions and one session's mutable state.
type Engine struct {
	Defs     *state.Defs
	State    *types.State
	Now      func() time.Time
	Handlers []events.Handler
}

// New creates a new session from definitions.
func New(defs *state.Defs) *Engine {
	return NewWithClock(defs, time.Now)
}

// NewWithClock creates a session that reads time from now.
func NewWithClock(defs *state.Defs, now func() time.Time) *Engine {
	return &Engine{
		Defs:  defs,
		State: state.NewState(defs, now()),
		Now:   now,
	}
}

// Subscribe registers a handler for events emitted by Step.
func (e *Engine) Subscribe(eventType string, fn func(types.Event)) {
	e.Handlers = append(e.Handlers, events.Handler{EventType: eventType, Fn: fn})
}

// Stats summarizes the session as of now.
func (e *Engine) Stats() types.Stats {
	return rules.Stats(e.Defs, e.State, e.Now())
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	cmd, ok := parser.Parse(input)
	if !ok {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	switch cmd.Verb {
	case "go":
		e.doGo(cmd.Noun, &result)
	case "look":
		e.doLook(cmd.Noun, &result)
	case "take":
		e.doTake(cmd.Noun, &result)
	case "drop":
		e.doDrop(cmd.Noun, &result)
	case "inventory":
		result.Output = append(result.Output, e.inventoryLine())
	case "use":
		e.doUse(cmd.Noun, &result)
	case "read":
		e.doRead(cmd.Noun, &result)
	case "talk":
		e.doTalk(&result)
	case "offer":
		e.doOffer(cmd.Noun, &result)
	case "help":
		result.Output = append(result.Output, helpText...)
	case "save", "load":
		result.Output = append(result.Output, fmt.Sprintf("Use /%s [name] to %s a game.", cmd.Verb, cmd.Verb))
	default:
		result.Output = append(result.Output, "I don't understand that command.")
	}

	// Anything that changes inventory or location can complete the game.
	if rules.CheckVictory(e.Defs, e.State) {
		e.victory(&result)
	}

	events.Dispatch(result.Events, e.Handlers)
	return result
}

var helpText = []string{
	"Commands:",
	"  go <direction> (or n/s/e/w/u/d, out)",
	"  look (l), look <thing>, search <thing>",
	"  take <item>, drop <item>, inventory (i)",
	"  use <item>, open <thing>, read <item>",
	"  talk, offer <item>",
	"  save, load, help",
}

func (e *Engine) doGo(direction string, result *types.Result) {
	if direction == "" {
		result.Output = append(result.Output, "Go where?")
		return
	}

	mr := rules.Move(e.Defs, e.State, direction)
	if !mr.Moved {
		result.Output = append(result.Output, mr.Message)
		return
	}

	if mr.Unlocked {
		result.Output = append(result.Output, fmt.Sprintf("You unlock the way with the %s.", mr.Key))
		result.Events = append(result.Events, events.New(events.DoorUnlocked, "room", mr.To, "key", mr.Key))
	}
	result.Events = append(result.Events, events.New(events.RoomEntered, "from", mr.From, "room", mr.To))
	result.Output = append(result.Output, e.describeRoom(mr.To)...)

	if mr.Won {
		e.victory(result)
	}
}

func (e *Engine) doLook(noun string, result *types.Result) {
	roomID := e.State.CurrentRoom
	if noun == "" {
		result.Output = append(result.Output, e.describeRoom(roomID)...)
		return
	}

	visible := rules.CanSee(e.Defs, e.State, roomID)

	if kw, ok := rules.FindSecret(e.Defs, roomID, noun); ok && visible {
		e.triggerSecret(roomID, kw, result)
		return
	}

	if state.HasItem(e.State, noun) || (visible && e.inRoom(noun)) {
		desc, _ := rules.ItemDescription(e.Defs, noun)
		result.Output = append(result.Output, desc)
		return
	}

	if !visible {
		result.Output = append(result.Output, "It's too dark to see anything.")
		return
	}
	result.Output = append(result.Output, fmt.Sprintf("You see nothing special about the %s.", noun))
}

func (e *Engine) doTake(noun string, result *types.Result) {
	if noun == "" {
		result.Output = append(result.Output, "Take what?")
		return
	}
	roomID := e.State.CurrentRoom
	if state.HasItem(e.State, noun) {
		result.Output = append(result.Output, "You already have that.")
		return
	}
	// A dropped lamp can still be found by touch in the dark.
	if !rules.CanSee(e.Defs, e.State, roomID) && !e.lightWithinReach(noun) {
		result.Output = append(result.Output, "It's too dark to find anything.")
		return
	}
	if !e.inRoom(noun) {
		result.Output = append(result.Output, "You don't see that here.")
		return
	}
	if takeable, _ := rules.IsTakeable(e.Defs, noun); !takeable {
		result.Output = append(result.Output, "You can't take that.")
		return
	}
	if room, _ := e.Defs.Room(roomID); room.HasDragon && !e.State.DragonFriendly {
		result.Output = append(result.Output, fmt.Sprintf("%s's eye narrows. 'Touch my hoard and you will burn, thief.'", e.dragonName()))
		return
	}

	items := state.RoomItems(e.State, e.Defs, roomID)
	state.SetRoomItems(e.State, roomID, remove(items, noun))
	state.AddItem(e.State, noun)
	result.Output = append(result.Output, fmt.Sprintf("You take the %s.", noun))
	result.Events = append(result.Events, events.New(events.ItemTaken, "item", noun, "room", roomID))
}

func (e *Engine) doDrop(noun string, result *types.Result) {
	if noun == "" {
		result.Output = append(result.Output, "Drop what?")
		return
	}
	if !state.RemoveItem(e.State, noun) {
		result.Output = append(result.Output, "You don't have that.")
		return
	}
	roomID := e.State.CurrentRoom
	items := state.RoomItems(e.State, e.Defs, roomID)
	state.SetRoomItems(e.State, roomID, append(items, noun))

	if lamp, _ := rules.IsLightSource(e.Defs, noun); lamp && !state.HasLight(e.State, e.Defs) {
		e.State.LampLit = false
	}
	result.Output = append(result.Output, fmt.Sprintf("You drop the %s.", noun))
	result.Events = append(result.Events, events.New(events.ItemDropped, "item", noun, "room", roomID))
}

func (e *Engine) doUse(noun string, result *types.Result) {
	if noun == "" {
		result.Output = append(result.Output, "Use what?")
		return
	}
	roomID := e.State.CurrentRoom

	// "open wardrobe" and friends reach secrets through the use verb.
	if kw, ok := rules.FindSecret(e.Defs, roomID, noun); ok && rules.CanSee(e.Defs, e.State, roomID) {
		e.triggerSecret(roomID, kw, result)
		return
	}

	if !state.HasItem(e.State, noun) {
		result.Output = append(result.Output, "You don't have that.")
		return
	}

	if light, _ := rules.IsLightSource(e.Defs, noun); light {
		if e.State.LampLit {
			result.Output = append(result.Output, fmt.Sprintf("The %s is already lit.", noun))
			return
		}
		wasVisible := rules.CanSee(e.Defs, e.State, roomID)
		e.State.LampLit = true
		e.State.Moves++
		result.Output = append(result.Output, fmt.Sprintf("You light the %s. It casts a warm, flickering glow.", noun))
		result.Events = append(result.Events, events.New(events.LampLit, "item", noun))
		if !wasVisible && rules.CanSee(e.Defs, e.State, roomID) {
			result.Output = append(result.Output, e.describeRoom(roomID)...)
		}
		return
	}

	for _, id := range e.Defs.RoomIDs() {
		if room, _ := e.Defs.Room(id); room.Locked && room.KeyRequired == noun {
			result.Output = append(result.Output, fmt.Sprintf("The %s will open the way when you walk through.", noun))
			return
		}
	}
	result.Output = append(result.Output, fmt.Sprintf("You can't figure out how to use the %s here.", noun))
}

func (e *Engine) doRead(noun string, result *types.Result) {
	if noun == "" {
		result.Output = append(result.Output, "Read what?")
		return
	}
	visible := rules.CanSee(e.Defs, e.State, e.State.CurrentRoom)
	if !state.HasItem(e.State, noun) && !(visible && e.inRoom(noun)) {
		result.Output = append(result.Output, "You don't have that.")
		return
	}
	desc, _ := rules.ItemDescription(e.Defs, noun)
	result.Output = append(result.Output, desc)
}

func (e *Engine) doTalk(result *types.Result) {
	room, _ := e.Defs.Room(e.State.CurrentRoom)
	if !room.HasDragon {
		result.Output = append(result.Output, "There is no one here to talk to.")
		return
	}

	wasFriendly := e.State.DragonFriendly
	line := dialogue.Talk(e.Defs.Dragon, e.State)
	e.State.Moves++
	result.Output = append(result.Output, line.Text)
	result.Events = append(result.Events, events.New(events.DragonSpoke, "line", e.State.DragonDialogue))

	if e.State.DragonFriendly && !wasFriendly {
		result.Output = append(result.Output, fmt.Sprintf("%s now regards you as a friend.", e.dragonName()))
		result.Events = append(result.Events, events.New(events.DragonBefriended))
	}
}

func (e *Engine) doOffer(noun string, result *types.Result) {
	room, _ := e.Defs.Room(e.State.CurrentRoom)
	if !room.HasDragon {
		result.Output = append(result.Output, "There is no one here to offer that to.")
		return
	}
	if noun == "" {
		result.Output = append(result.Output, "Offer what?")
		return
	}

	name := e.dragonName()
	res := dialogue.Offer(e.Defs, e.State, noun)
	switch res.Outcome {
	case dialogue.OfferNotHeld:
		result.Output = append(result.Output, "You don't have that.")
	case dialogue.OfferRefused:
		result.Output = append(result.Output, fmt.Sprintf("%s snorts a plume of smoke. 'I do not take gifts from strangers.'", name))
	case dialogue.OfferKept:
		result.Output = append(result.Output, fmt.Sprintf("%s pushes the %s back toward you. 'That is yours to carry, not mine to keep.'", name, noun))
	case dialogue.OfferAccepted:
		e.State.Moves++
		result.Output = append(result.Output, fmt.Sprintf("%s accepts the %s with a pleased rumble.", name, noun))
		if res.Gift != "" {
			result.Output = append(result.Output, fmt.Sprintf("In return, %s presents you with a %s.", name, res.Gift))
			result.Events = append(result.Events, events.New(events.GiftReceived, "item", res.Gift))
		}
	}
}

func (e *Engine) triggerSecret(roomID, keyword string, result *types.Result) {
	sr := rules.TriggerSecret(e.Defs, e.State, roomID, keyword)
	result.Output = append(result.Output, sr.Text)
	if sr.AlreadyFound || !sr.Found {
		return
	}

	e.State.Moves++
	result.Events = append(result.Events, events.New(events.SecretFound, "room", roomID, "secret", keyword))
	if sr.Gave != "" {
		result.Output = append(result.Output, fmt.Sprintf("You take the %s.", sr.Gave))
		result.Events = append(result.Events, events.New(events.ItemTaken, "item", sr.Gave, "room", roomID))
	}
	if sr.Opened != "" {
		for _, dir := range rules.VisibleExits(e.Defs, e.State, roomID) {
			if target, _ := rules.ExitRoom(e.Defs, e.State, roomID, dir); target == sr.Opened {
				result.Output = append(result.Output, fmt.Sprintf("A new way opens to the %s.", dir))
			}
		}
		result.Events = append(result.Events, events.New(events.RoomOpened, "room", sr.Opened))
	}
}

func (e *Engine) victory(result *types.Result) {
	result.Output = append(result.Output,
		"",
		fmt.Sprintf("*** Victory! You have conquered %s in %d moves. ***", e.Defs.Game.Title, e.State.Moves),
	)
	result.Events = append(result.Events, events.New(events.GameWon, "moves", e.State.Moves))
}

// describeRoom produces the standard room description output.
func (e *Engine) describeRoom(roomID string) []string {
	room, ok := e.Defs.Room(roomID)
	if !ok {
		return []string{"You are somewhere unknown."}
	}

	visible := rules.CanSee(e.Defs, e.State, roomID)
	desc := room.Description
	if room.Dark && visible && room.DescriptionLit != "" {
		desc = room.DescriptionLit
	}

	output := []string{room.Name, desc}

	if visible {
		if items := state.RoomItems(e.State, e.Defs, roomID); len(items) > 0 {
			output = append(output, "You see: "+strings.Join(items, ", ")+".")
		}
	}

	if room.HasDragon && e.State.DragonFriendly {
		output = append(output, fmt.Sprintf("%s watches you with friendly eyes.", e.dragonName()))
	}

	if exits := rules.VisibleExits(e.Defs, e.State, roomID); len(exits) > 0 {
		output = append(output, "Exits: "+strings.Join(exits, ", ")+".")
	}

	return output
}

func (e *Engine) inventoryLine() string {
	if len(e.State.Inventory) == 0 {
		return "You are carrying nothing."
	}
	return "You are carrying: " + strings.Join(e.State.Inventory, ", ") + "."
}

func (e *Engine) inRoom(item string) bool {
	for _, it := range state.RoomItems(e.State, e.Defs, e.State.CurrentRoom) {
		if it == item {
			return true
		}
	}
	return false
}

func (e *Engine) lightWithinReach(item string) bool {
	light, _ := rules.IsLightSource(e.Defs, item)
	return light && e.inRoom(item)
}

func (e *Engine) dragonName() string {
	if e.Defs.Dragon.Name != "" {
		return e.Defs.Dragon.Name
	}
	return "The dragon"
}

func remove(items []string, name string) []string {
	out := items[:0]
	for _, it := range items {
		if it != name {
			out = append(out, it)
		}
	}
	return out
}
