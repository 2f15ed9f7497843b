package events

import (
	"testing"

	"github.com/nathoo/mysticcastle/types"
)

func TestNew(t *testing.T) {
	e := New(ItemTaken, "item", "brass lamp", "room", "kitchen", "dangling")
	if e.Type != ItemTaken {
		t.Errorf("expected type %q, got %q", ItemTaken, e.Type)
	}
	if e.Data["item"] != "brass lamp" || e.Data["room"] != "kitchen" {
		t.Errorf("unexpected data: %v", e.Data)
	}
	if _, ok := e.Data["dangling"]; ok {
		t.Error("odd trailing key should be ignored")
	}
}

func TestDispatch_MatchesEventType(t *testing.T) {
	var taken, all []string
	handlers := []Handler{
		{EventType: ItemTaken, Fn: func(e types.Event) { taken = append(taken, e.Data["item"].(string)) }},
		{Fn: func(e types.Event) { all = append(all, e.Type) }},
	}

	evts := []types.Event{
		New(ItemTaken, "item", "rusty key"),
		New(RoomEntered, "room", "courtyard"),
		New(ItemTaken, "item", "brass lamp"),
	}

	n := Dispatch(evts, handlers)
	if n != 5 {
		t.Errorf("expected 5 invocations, got %d", n)
	}
	if len(taken) != 2 || taken[0] != "rusty key" || taken[1] != "brass lamp" {
		t.Errorf("unexpected taken order: %v", taken)
	}
	if len(all) != 3 || all[1] != RoomEntered {
		t.Errorf("catch-all handler saw %v", all)
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	if n := Dispatch([]types.Event{New(GameWon)}, nil); n != 0 {
		t.Errorf("expected 0 invocations, got %d", n)
	}
}

func TestDispatch_NilFuncSkipped(t *testing.T) {
	handlers := []Handler{{EventType: GameWon}}
	if n := Dispatch([]types.Event{New(GameWon)}, handlers); n != 0 {
		t.Errorf("expected nil handler to be skipped, got %d", n)
	}
}
