// Package dialogue implements the dragon's scripted conversation.
package dialogue

import (
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// Offer outcomes.
const (
	OfferNotHeld  = "not_held"
	OfferRefused  = "refused"
	OfferKept     = "kept"
	OfferAccepted = "accepted"
)

// Current returns the line the dragon would speak next without advancing
// the conversation. A counter past the end repeats the final line.
func Current(d types.DragonDef, s *types.State) types.DialogueLine {
	if len(d.Lines) == 0 {
		return types.DialogueLine{}
	}
	idx := clamp(s.DragonDialogue, len(d.Lines))
	return types.DialogueLine{
		Text:            d.Lines[idx],
		BecomesFriendly: idx == d.FriendlyIndex,
	}
}

// Talk speaks the current line and advances the counter, saturating at the
// last line. Reaching the friendly line befriends the dragon for good.
func Talk(d types.DragonDef, s *types.State) types.DialogueLine {
	line := Current(d, s)
	if len(d.Lines) == 0 {
		return line
	}
	if line.BecomesFriendly {
		s.DragonFriendly = true
	}
	s.DragonDialogue = clamp(s.DragonDialogue+1, len(d.Lines))
	return line
}

// OfferResult is the outcome of giving an item to the dragon.
type OfferResult struct {
	Outcome string
	Gift    string // item received in return, if any
}

// Offer hands an item to the dragon. Only a friendly dragon accepts, and it
// never takes a goal item; the first accepted offering is rewarded with the
// dragon's gift.
func Offer(defs *state.Defs, s *types.State, item string) OfferResult {
	d := defs.Dragon
	if !state.HasItem(s, item) {
		return OfferResult{Outcome: OfferNotHeld}
	}
	if !s.DragonFriendly {
		return OfferResult{Outcome: OfferRefused}
	}
	if it, ok := defs.Item(item); ok && it.IsGoal {
		return OfferResult{Outcome: OfferKept}
	}
	state.RemoveItem(s, item)
	res := OfferResult{Outcome: OfferAccepted}
	if d.Gift != "" && !s.DragonGift {
		s.DragonGift = true
		state.AddItem(s, d.Gift)
		res.Gift = d.Gift
	}
	return res
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
