// Package events names the events a turn can emit and delivers them to
// subscribed handlers. Handlers observe; they never change game state.
package events

import "github.com/nathoo/mysticcastle/types"

// Event types emitted by the session driver.
const (
	RoomEntered      = "room_entered"
	DoorUnlocked     = "door_unlocked"
	ItemTaken        = "item_taken"
	ItemDropped      = "item_dropped"
	LampLit          = "lamp_lit"
	SecretFound      = "secret_found"
	RoomOpened       = "room_opened"
	DragonSpoke      = "dragon_spoke"
	DragonBefriended = "dragon_befriended"
	GiftReceived     = "gift_received"
	GameWon          = "game_won"
)

// New builds an event from alternating key/value pairs.
func New(eventType string, kv ...any) types.Event {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return types.Event{Type: eventType, Data: data}
}

// Handler receives events of one type, or every event when EventType is empty.
type Handler struct {
	EventType string
	Fn        func(types.Event)
}

// Dispatch delivers events to matching handlers in order. Single pass.
// Returns the number of handler invocations.
func Dispatch(evts []types.Event, handlers []Handler) int {
	n := 0
	for _, event := range evts {
		for _, h := range handlers {
			if h.Fn == nil {
				continue
			}
			if h.EventType != "" && h.EventType != event.Type {
				continue
			}
			h.Fn(event)
			n++
		}
	}
	return n
}
