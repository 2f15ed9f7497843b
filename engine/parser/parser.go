// Package parser converts command strings into Command structs.
// Intentionally dumb: two tokens, no NLP.
package parser

import (
	"strings"

	"github.com/nathoo/mysticcastle/types"
)

// aliasKind tags what an alias resolves to.
type aliasKind int

const (
	aliasVerb aliasKind = iota
	aliasDirection
)

type alias struct {
	kind   aliasKind
	target string
}

var directions = []string{"north", "south", "east", "west", "up", "down", "out"}

var directionSet = map[string]bool{
	"north": true, "south": true, "east": true, "west": true,
	"up": true, "down": true, "out": true,
}

var aliases = map[string]alias{
	// Direction shortcuts
	"n": {aliasDirection, "north"},
	"s": {aliasDirection, "south"},
	"e": {aliasDirection, "east"},
	"w": {aliasDirection, "west"},
	"u": {aliasDirection, "up"},
	"d": {aliasDirection, "down"},

	// Take
	"get":  {aliasVerb, "take"},
	"grab": {aliasVerb, "take"},
	"pick": {aliasVerb, "take"},

	// Look / Examine
	"l":       {aliasVerb, "look"},
	"examine": {aliasVerb, "look"},
	"x":       {aliasVerb, "look"},
	"inspect": {aliasVerb, "look"},
	"search":  {aliasVerb, "look"},

	// Inventory
	"i":   {aliasVerb, "inventory"},
	"inv": {aliasVerb, "inventory"},

	// Use
	"light":    {aliasVerb, "use"},
	"activate": {aliasVerb, "use"},
	"open":     {aliasVerb, "use"},

	// Talk
	"speak": {aliasVerb, "talk"},
	"say":   {aliasVerb, "talk"},
	"chat":  {aliasVerb, "talk"},
	"greet": {aliasVerb, "talk"},

	// Offer
	"give":    {aliasVerb, "offer"},
	"present": {aliasVerb, "offer"},
	"share":   {aliasVerb, "offer"},
}

var knownVerbs = map[string]bool{
	"go": true, "look": true, "take": true, "drop": true,
	"inventory": true, "use": true, "read": true, "talk": true,
	"offer": true, "help": true, "save": true, "load": true,
}

var articles = []string{"the ", "a ", "an "}

// Parse converts a raw command string into a Command. It returns false for
// blank input, which callers treat as a no-op turn.
func Parse(input string) (types.Command, bool) {
	words := strings.Fields(strings.ToLower(input))
	if len(words) == 0 {
		return types.Command{}, false
	}

	verb := words[0]
	noun := strings.Join(words[1:], " ")

	if a, ok := aliases[verb]; ok {
		verb = a.target
		if a.kind == aliasDirection && noun == "" {
			verb, noun = "go", a.target
		}
	}

	// Bare direction: "north" → go north.
	if directionSet[verb] && noun == "" {
		verb, noun = "go", verb
	}

	return types.Command{Verb: verb, Noun: stripArticle(noun)}, true
}

// stripArticle removes a single leading article from the noun. Articles
// elsewhere in the noun are kept.
func stripArticle(noun string) string {
	for _, a := range articles {
		if strings.HasPrefix(noun, a) {
			return strings.TrimPrefix(noun, a)
		}
	}
	return noun
}

// IsDirection reports whether word is one of the recognized directions.
func IsDirection(word string) bool {
	return directionSet[word]
}

// Directions returns the recognized movement directions.
func Directions() []string {
	return append([]string{}, directions...)
}

// KnownVerb returns true if the verb is an action the engine recognizes.
// Bare directions count as verbs.
func KnownVerb(verb string) bool {
	return knownVerbs[verb] || directionSet[verb]
}

// Alias returns the target of an alias and whether it is a direction.
func Alias(word string) (target string, isDirection bool, ok bool) {
	a, ok := aliases[word]
	if !ok {
		return "", false, false
	}
	return a.target, a.kind == aliasDirection, true
}
