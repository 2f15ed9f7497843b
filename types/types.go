// Package types defines the shared data structures for the MysticCastle engine.
// This package contains only type definitions: no logic, no methods.
package types

import "time"

// Command is the parsed representation of a player command.
type Command struct {
	Verb string
	Noun string // optional
}

// Event is emitted by the driver after a turn changes state.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
}

// Secret is a hidden, keyword-triggered reward scoped to a room.
type Secret struct {
	Description string
	Gives       string // item name, optional
	OpensRoom   string // room ID, optional
	OneTime     bool
}

// SecretKey addresses a secret by its room and keyword.
type SecretKey struct {
	Room   string `json:"room"`
	Secret string `json:"secret"`
}

// Room is the immutable definition of a room.
type Room struct {
	ID             string
	Name           string
	Description    string
	Dark           bool
	DescriptionLit string
	Exits          map[string]string // direction → room ID
	Items          []string
	Locked         bool
	LockedMessage  string
	KeyRequired    string
	Secrets        map[string]Secret // keyword → secret
	HasDragon      bool
	DragonState    string
	IsVictory      bool
}

// Item is the immutable definition of an item. Items are keyed by name.
type Item struct {
	Name        string
	Description string
	Takeable    bool
	IsLight     bool
	IsGoal      bool
}

// DragonDef holds the dragon's scripted dialogue.
type DragonDef struct {
	Name          string
	Lines         []string
	FriendlyIndex int
	Gift          string // item granted to a friend, optional
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting room ID
	Intro   string
}

// State is the complete mutable state of one play session.
type State struct {
	CurrentRoom    string
	Inventory      []string
	Moves          int
	RoomItems      map[string][]string // room ID → overridden item list
	SecretsFound   map[SecretKey]bool
	LampLit        bool
	GameWon        bool
	OpenedRooms    map[string]bool // rooms exposed by a secret
	UnlockedRooms  map[string]bool // locked rooms already entered with their key
	DragonDialogue int
	DragonFriendly bool
	DragonGift     bool // the dragon has handed over its gift
	StartTime      time.Time
}

// Access is the outcome of checking whether a room may be entered.
type Access struct {
	Accessible bool
	Message    string
	Unlocked   bool
	Key        string
}

// MoveResult is the outcome of an attempted move.
type MoveResult struct {
	Moved    bool
	From     string
	To       string
	Message  string
	Unlocked bool // a key opened the way for the first time
	Key      string
	Won      bool
}

// SecretResult is the outcome of triggering a secret.
type SecretResult struct {
	Found        bool // the keyword names a secret in the room
	AlreadyFound bool
	Text         string
	Gave         string
	Opened       string
}

// DialogueLine is a single line of dragon dialogue.
type DialogueLine struct {
	Text            string
	BecomesFriendly bool
}

// Stats summarizes a session.
type Stats struct {
	Moves          int  `json:"moves"`
	InventoryCount int  `json:"inventoryCount"`
	SecretsFound   int  `json:"secretsFound"`
	TotalSecrets   int  `json:"totalSecrets"`
	HasWon         bool `json:"hasWon"`
	HasCrown       bool `json:"hasCrown"`
	DragonFriendly bool `json:"dragonFriendly"`
	MinutesPlayed  int  `json:"minutesPlayed"`
}
