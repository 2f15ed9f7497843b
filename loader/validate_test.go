package loader

import (
	"testing"

	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/types"
)

// validDefs returns a minimal valid Defs for testing.
func validDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title: "Test",
			Start: "hall",
		},
		Rooms: map[string]types.Room{
			"hall": {
				ID:          "hall",
				Description: "A hall.",
				Exits:       map[string]string{"north": "cellar"},
				Items:       []string{"crown"},
			},
			"cellar": {
				ID:             "cellar",
				Description:    "Dark.",
				Dark:           true,
				DescriptionLit: "Lit.",
				Exits:          map[string]string{"up": "hall"},
				Items:          []string{"lamp"},
			},
		},
		Items: map[string]types.Item{
			"crown": {Name: "crown", Takeable: true, IsGoal: true},
			"lamp":  {Name: "lamp", Takeable: true, IsLight: true},
			"key":   {Name: "key", Takeable: true},
		},
	}
}

func TestValidate_ValidDefs(t *testing.T) {
	if err := validate(validDefs()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if ve := check(validDefs()); len(ve.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", ve.Warnings)
	}
}

func TestValidate_MissingStartRoom(t *testing.T) {
	defs := validDefs()
	defs.Game.Start = "nonexistent"

	err := validate(defs)
	if err == nil {
		t.Fatal("expected error for missing start room")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	assertContains(t, ve.Errors, "start room")
}

func TestValidate_EmptyTitle(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""

	err := validate(defs)
	if err == nil {
		t.Fatal("expected error for empty title")
	}
	ve := err.(*ValidationError)
	assertContains(t, ve.Errors, "title")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*state.Defs)
		want   string
	}{
		{
			name: "bad exit target",
			mutate: func(d *state.Defs) {
				r := d.Rooms["hall"]
				r.Exits = map[string]string{"north": "attic"}
				d.Rooms["hall"] = r
			},
			want: "undefined room \"attic\"",
		},
		{
			name: "bad exit direction",
			mutate: func(d *state.Defs) {
				r := d.Rooms["hall"]
				r.Exits = map[string]string{"sideways": "cellar"}
				d.Rooms["hall"] = r
			},
			want: "not a direction",
		},
		{
			name: "locked without message",
			mutate: func(d *state.Defs) {
				r := d.Rooms["cellar"]
				r.Locked, r.KeyRequired = true, "key"
				d.Rooms["cellar"] = r
			},
			want: "needs both key and locked_message",
		},
		{
			name: "key on unlocked room",
			mutate: func(d *state.Defs) {
				r := d.Rooms["cellar"]
				r.KeyRequired = "key"
				d.Rooms["cellar"] = r
			},
			want: "is not locked",
		},
		{
			name: "undefined key",
			mutate: func(d *state.Defs) {
				r := d.Rooms["cellar"]
				r.Locked, r.KeyRequired, r.LockedMessage = true, "skeleton key", "Locked."
				d.Rooms["cellar"] = r
			},
			want: "\"skeleton key\" is not a defined item",
		},
		{
			name: "undefined room item",
			mutate: func(d *state.Defs) {
				r := d.Rooms["hall"]
				r.Items = append(r.Items, "ghost")
				d.Rooms["hall"] = r
			},
			want: "undefined item \"ghost\"",
		},
		{
			name: "item in two rooms",
			mutate: func(d *state.Defs) {
				r := d.Rooms["hall"]
				r.Items = append(r.Items, "lamp")
				d.Rooms["hall"] = r
			},
			want: "placed in both",
		},
		{
			name: "secret gives undefined item",
			mutate: func(d *state.Defs) {
				r := d.Rooms["cellar"]
				r.Secrets = map[string]types.Secret{"brick": {Description: "x", Gives: "gem"}}
				d.Rooms["cellar"] = r
			},
			want: "gives undefined item",
		},
		{
			name: "secret opens undefined room",
			mutate: func(d *state.Defs) {
				r := d.Rooms["cellar"]
				r.Secrets = map[string]types.Secret{"brick": {Description: "x", OpensRoom: "vault"}}
				d.Rooms["cellar"] = r
			},
			want: "opens undefined room",
		},
		{
			name: "secret without text",
			mutate: func(d *state.Defs) {
				r := d.Rooms["cellar"]
				r.Secrets = map[string]types.Secret{"brick": {Gives: "key"}}
				d.Rooms["cellar"] = r
			},
			want: "has no description",
		},
		{
			name: "dragon room without lines",
			mutate: func(d *state.Defs) {
				r := d.Rooms["hall"]
				r.HasDragon = true
				d.Rooms["hall"] = r
			},
			want: "no Dragon{} lines",
		},
		{
			name: "friendly index out of range",
			mutate: func(d *state.Defs) {
				d.Dragon = types.DragonDef{Lines: []string{"a", "b"}, FriendlyIndex: 2}
			},
			want: "out of range",
		},
		{
			name: "undefined gift",
			mutate: func(d *state.Defs) {
				d.Dragon = types.DragonDef{Lines: []string{"a"}, Gift: "tooth"}
			},
			want: "gift \"tooth\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			tt.mutate(defs)
			err := validate(defs)
			if err == nil {
				t.Fatal("expected validation error")
			}
			assertContains(t, err.(*ValidationError).Errors, tt.want)
		})
	}
}

func TestValidate_MultipleErrorsCollected(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""
	defs.Game.Start = "nowhere"

	ve := check(defs)
	if len(ve.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Run("no goal", func(t *testing.T) {
		defs := validDefs()
		delete(defs.Items, "crown")
		r := defs.Rooms["hall"]
		r.Items = nil
		defs.Rooms["hall"] = r

		ve := check(defs)
		if len(ve.Errors) != 0 {
			t.Fatalf("unexpected errors: %v", ve.Errors)
		}
		assertContains(t, ve.Warnings, "no goal item")
	})

	t.Run("no light", func(t *testing.T) {
		defs := validDefs()
		defs.Items["lamp"] = types.Item{Name: "lamp", Takeable: true}
		assertContains(t, check(defs).Warnings, "no light source")
	})

	t.Run("goal not placed", func(t *testing.T) {
		defs := validDefs()
		r := defs.Rooms["hall"]
		r.Items = nil
		defs.Rooms["hall"] = r
		assertContains(t, check(defs).Warnings, "not placed")
	})

	t.Run("goal given by secret", func(t *testing.T) {
		defs := validDefs()
		r := defs.Rooms["hall"]
		r.Items = nil
		r.Secrets = map[string]types.Secret{"altar": {Description: "A crown!", Gives: "crown"}}
		defs.Rooms["hall"] = r
		if w := check(defs).Warnings; len(w) != 0 {
			t.Errorf("expected no warnings, got %v", w)
		}
	})

	t.Run("dark room without lit text", func(t *testing.T) {
		defs := validDefs()
		r := defs.Rooms["cellar"]
		r.DescriptionLit = ""
		defs.Rooms["cellar"] = r
		assertContains(t, check(defs).Warnings, "description_lit")
	})
}
