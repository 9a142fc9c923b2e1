package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/tatianab/adventure/internal/models"
)

const keyWorld = `
start_room: R0
rooms:
  - name: R0
    description: A small room with a door to the north.
    emptyDescription: A small bare room.
    items:
      - name: key1
      - name: knife
      - name: stick
        requiredToTake: knife
    doors:
      - name: north
        destination: R1
        keys: [key1]
  - name: R1
    description: Daylight at last.
    type: end
`

func newSession(t *testing.T, yaml string, opts ...models.LoadOption) (*Engine, *Session) {
	t.Helper()
	w, err := models.ParseWorld([]byte(yaml), t.Name(), opts...)
	if err != nil {
		t.Fatalf("failed to parse world: %v", err)
	}
	return NewEngine(Options{}), NewSession(w)
}

// turn applies line and drains the resulting message.
func turn(e *Engine, s *Session, line string) string {
	room := s.Room()
	e.ProcessTurn(s, line)
	msg := room.TakeMessage()
	if r := s.Room(); r != nil && r != room {
		msg = strings.TrimSpace(msg + "\n" + r.TakeMessage())
	}
	return msg
}

func TestScenario_UnlockAndLeave(t *testing.T) {
	e, s := newSession(t, keyWorld)

	testutil.AssertEqual(t, "take", turn(e, s, "take key1"), "You take the key1")
	testutil.AssertEqual(t, "carrying", s.Inventory.Contains("key1"), true)

	testutil.AssertEqual(t, "use", turn(e, s, "use key1"), "The north door opened")

	more := e.ProcessTurn(s, "go north")
	testutil.AssertEqual(t, "room", s.RoomKey(), "R1")
	testutil.AssertEqual(t, "continue", more, false)
	testutil.AssertEqual(t, "done", s.Done(), true)
}

func TestScenario_LockedDoor(t *testing.T) {
	e, s := newSession(t, keyWorld)

	testutil.AssertEqual(t, "go", turn(e, s, "go north"), "The north door is locked")
	testutil.AssertEqual(t, "room", s.RoomKey(), "R0")
}

func TestScenario_PrerequisiteToTake(t *testing.T) {
	e, s := newSession(t, keyWorld)

	testutil.AssertEqual(t, "blocked", turn(e, s, "take stick"), "Can't touch this")
	if _, ok := s.Room().Items["stick"]; !ok {
		t.Fatal("expected stick to stay in the room")
	}

	testutil.AssertEqual(t, "knife", turn(e, s, "take knife"), "You take the knife")
	testutil.AssertEqual(t, "stick", turn(e, s, "take stick"), "You take the stick")
	if _, ok := s.Room().Items["stick"]; ok {
		t.Error("expected stick to leave the room")
	}
	testutil.AssertEqual(t, "carrying stick", s.Inventory.Contains("stick"), true)
}

func TestTake_AbsentItemIsSideEffectFree(t *testing.T) {
	e, s := newSession(t, keyWorld)
	before := len(s.Room().Items)

	for i := 0; i < 3; i++ {
		testutil.AssertEqual(t, "message", turn(e, s, "take unicorn"), "There is no unicorn here")
		testutil.AssertEqual(t, "room items", len(s.Room().Items), before)
		testutil.AssertEqual(t, "inventory", s.Inventory.Len(), 0)
	}
}

func TestTakeDrop_RoundTrip(t *testing.T) {
	e, s := newSession(t, keyWorld)
	room := s.Room()

	turn(e, s, "take key1")
	turn(e, s, "take knife")
	turn(e, s, "take stick")
	testutil.AssertEqual(t, "empty", room.IsEmpty(), true)
	testutil.AssertEqual(t, "description", room.CurrentDescription(), "A small bare room.")

	testutil.AssertEqual(t, "drop", turn(e, s, "drop key1"), "You dropped the key1")
	testutil.AssertEqual(t, "in room", room.Items["key1"] != nil, true)
	testutil.AssertEqual(t, "not carried", s.Inventory.Contains("key1"), false)
	testutil.AssertEqual(t, "not empty", room.IsEmpty(), false)
	testutil.AssertEqual(t, "full description", room.CurrentDescription(), "A small room with a door to the north.")
}

func TestOwnershipExclusivity(t *testing.T) {
	e, s := newSession(t, keyWorld)
	room := s.Room()

	check := func(name string) {
		t.Helper()
		inRoom := room.Items[name] != nil
		carried := s.Inventory.Contains(name)
		if inRoom == carried {
			t.Errorf("%s: in room=%v carried=%v", name, inRoom, carried)
		}
	}

	for _, line := range []string{"take key1", "drop key1", "take knife", "take stick", "drop knife", "take key1", "drop stick"} {
		turn(e, s, line)
		for _, name := range []string{"key1", "knife", "stick"} {
			check(name)
		}
	}
}

func TestUse(t *testing.T) {
	world := `
start_room: hall
rooms:
  - name: hall
    description: A hall.
    items:
      - name: red
        removeAfterUse: true
      - name: blue
        useText: The vault swings open!
      - name: rock
        cannotUseText: You toss the rock from hand to hand.
      - name: wand
      - name: spell
        requiredToUse: [wand]
    doors:
      - name: vault
        destination: vault
        keys: [red, blue]
        hidden: true
  - name: vault
    description: Gold everywhere.
    type: end
`
	tests := map[string]struct {
		lines  []string
		expMsg string
		check  func(t *testing.T, s *Session)
	}{
		"not carrying": {
			lines:  []string{"use red"},
			expMsg: "You are not carrying any red",
		},
		"partial unlock": {
			lines:  []string{"take red", "use red"},
			expMsg: "A lock on the vault door disengages. 1 lock remains",
			check: func(t *testing.T, s *Session) {
				testutil.AssertEqual(t, "removed after use", s.Inventory.Contains("red"), false)
				testutil.AssertEqual(t, "still hidden", s.Room().Doors["vault"].Hidden, true)
			},
		},
		"full unlock reveals": {
			lines:  []string{"take red", "take blue", "use red", "use blue"},
			expMsg: "The vault swings open!",
			check: func(t *testing.T, s *Session) {
				d := s.Room().Doors["vault"]
				testutil.AssertEqual(t, "open", d.Open, true)
				testutil.AssertEqual(t, "hidden", d.Hidden, false)
				testutil.AssertEqual(t, "blue kept", s.Inventory.Contains("blue"), true)
			},
		},
		"already open is a no-op": {
			lines:  []string{"take red", "take blue", "use red", "use blue", "use blue"},
			expMsg: "You can not use the blue here",
			check: func(t *testing.T, s *Session) {
				testutil.AssertEqual(t, "stays open", s.Room().Doors["vault"].Open, true)
			},
		},
		"custom cannot use": {
			lines:  []string{"take rock", "use rock"},
			expMsg: "You toss the rock from hand to hand.",
		},
		"missing prerequisite": {
			lines:  []string{"take spell", "use spell"},
			expMsg: "You need another item to use this",
		},
		"prerequisite met but nothing to use on": {
			lines:  []string{"take spell", "take wand", "use spell"},
			expMsg: "You can not use the spell here",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, s := newSession(t, world)
			var msg string
			for _, line := range tt.lines {
				msg = turn(e, s, line)
			}
			testutil.AssertEqual(t, "message", msg, tt.expMsg)
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestUse_HiddenDoorInvisibleUntilOpened(t *testing.T) {
	world := `
start_room: hall
rooms:
  - name: hall
    description: A hall.
    items:
      - name: lever
    doors:
      - name: panel
        destination: den
        keys: lever
        hidden: true
  - name: den
    description: A den.
`
	e, s := newSession(t, world)

	testutil.AssertEqual(t, "hidden", turn(e, s, "go panel"), "You can not go panel")
	turn(e, s, "take lever")
	testutil.AssertEqual(t, "use", turn(e, s, "use lever"), "The panel door opened")
	turn(e, s, "go panel")
	testutil.AssertEqual(t, "room", s.RoomKey(), "den")
}

func TestGo(t *testing.T) {
	world := `
start_room: dock
rooms:
  - name: dock
    description: A dock.
    items:
      - name: anvil
    doors:
      - name: boat
        destination: boat
        blocks_entering: [anvil]
      - name: shed
        destination: shed
        blocks_entering: [anvil]
        blocks_text: The anvil won't fit through the shed door.
      - name: gate
        destination: shed
        open: false
        hint: It seems stuck.
  - name: boat
    description: A boat.
  - name: shed
    description: A shed.
`
	tests := map[string]struct {
		lines   []string
		expMsg  string
		expRoom string
	}{
		"no such door": {
			lines:   []string{"go up"},
			expMsg:  "You can not go up",
			expRoom: "dock",
		},
		"closed with hint": {
			lines:   []string{"go gate"},
			expMsg:  "The gate door is locked\nIt seems stuck.",
			expRoom: "dock",
		},
		"default blocking message": {
			lines:   []string{"take anvil", "go boat"},
			expMsg:  "Something you carry prevents you entering",
			expRoom: "dock",
		},
		"custom blocking message": {
			lines:   []string{"take anvil", "go shed"},
			expMsg:  "The anvil won't fit through the shed door.",
			expRoom: "dock",
		},
		"unblocked": {
			lines:   []string{"go boat"},
			expRoom: "boat",
		},
		"back": {
			lines:   []string{"go boat", "go back"},
			expRoom: "dock",
		},
		"back at start": {
			lines:   []string{"go back"},
			expMsg:  "You can not go back",
			expRoom: "dock",
		},
		"unknown verb": {
			lines:   []string{"fly boat"},
			expMsg:  "You can not fly boat",
			expRoom: "dock",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, s := newSession(t, world)
			var msg string
			for _, line := range tt.lines {
				msg = turn(e, s, line)
			}
			testutil.AssertEqual(t, "message", msg, tt.expMsg)
			testutil.AssertEqual(t, "room", s.RoomKey(), tt.expRoom)
		})
	}
}

func TestGo_MissingDestinationHalts(t *testing.T) {
	room := models.NewRoom("island", "An island.")
	room.Doors["bridge"] = &models.Door{Name: "bridge", Destination: "nowhere", Open: true}
	w := &models.World{Start: "island", Rooms: map[string]*models.Room{"island": room}}

	e := NewEngine(Options{})
	s := NewSession(w)

	more := e.ProcessTurn(s, "go bridge")
	testutil.AssertEqual(t, "continue", more, false)

	var rnf *RoomNotFoundError
	if !errors.As(s.Err(), &rnf) {
		t.Fatalf("expected RoomNotFoundError, got %v", s.Err())
	}
	testutil.AssertEqual(t, "missing room", rnf.Room, "nowhere")
	testutil.AssertEqual(t, "stays put", s.RoomKey(), "island")
}

const forgeWorld = `
start_room: forge
rooms:
  - name: forge
    description: A forge.
    items:
      - name: blade
        combines_with: [hilt, pommel]
        combined_name: sword
        combined_text: You assemble a fine sword.
        combined_item:
          useText: The sword cuts the rope.
      - name: hilt
      - name: pommel
`

func TestCombination_AnyOrder(t *testing.T) {
	orders := [][]string{
		{"blade", "hilt", "pommel"},
		{"pommel", "hilt", "blade"},
		{"hilt", "blade", "pommel"},
	}

	for _, order := range orders {
		t.Run(strings.Join(order, "-"), func(t *testing.T) {
			e, s := newSession(t, forgeWorld)

			var msg string
			for i, part := range order {
				msg = turn(e, s, "take "+part)
				if i < len(order)-1 && s.Inventory.Contains("sword") {
					t.Fatalf("sword built after only %d parts", i+1)
				}
			}

			testutil.AssertEqual(t, "message", msg, "You take the "+order[len(order)-1]+"\nYou assemble a fine sword.")
			testutil.AssertEqual(t, "inventory", strings.Join(s.Inventory.Names(), ","), "sword")
			testutil.AssertEqual(t, "use text", s.Inventory.Get("sword").UseText, "The sword cuts the rope.")
			testutil.AssertEqual(t, "pending cleared", len(s.Pending), 0)
		})
	}
}

func TestCombination_DroppedPartWaits(t *testing.T) {
	e, s := newSession(t, forgeWorld)

	turn(e, s, "take blade")
	turn(e, s, "take hilt")
	turn(e, s, "drop blade")
	turn(e, s, "take pommel")
	testutil.AssertEqual(t, "not yet", s.Inventory.Contains("sword"), false)

	turn(e, s, "take blade")
	testutil.AssertEqual(t, "sword", s.Inventory.Contains("sword"), true)
	testutil.AssertEqual(t, "count", s.Inventory.Len(), 1)
}

func TestCombination_Chained(t *testing.T) {
	world := `
start_room: lab
rooms:
  - name: lab
    description: A lab.
    items:
      - name: a
        combines_with: b
        combined_name: ab
        combined_item:
          combines_with: c
          combined_name: abc
          combined_text: It all fits together.
      - name: b
      - name: c
`
	e, s := newSession(t, world)
	turn(e, s, "take c")
	turn(e, s, "take a")
	msg := turn(e, s, "take b")

	testutil.AssertEqual(t, "inventory", strings.Join(s.Inventory.Names(), ","), "abc")
	testutil.AssertEqual(t, "message", msg, "You take the b\nYou now have a ab\nIt all fits together.")
}

func TestCombination_WaitsForFreeSlot(t *testing.T) {
	shed := models.NewRoom("shed", "A shed.")
	shed.Items["lamp"] = &models.Item{Name: "lamp"}
	shed.Items["oil"] = &models.Item{Name: "oil"}
	shed.Items["wick"] = &models.Item{
		Name: "wick",
		Recipe: &models.Recipe{
			Parts:  []string{"wick", "oil"},
			Result: &models.Item{Name: "lamp", UseText: "The new lamp glows."},
		},
	}
	w := &models.World{Start: "shed", Rooms: map[string]*models.Room{"shed": shed}}
	e, s := NewEngine(Options{}), NewSession(w)
	original := shed.Items["lamp"]

	turn(e, s, "take lamp")
	turn(e, s, "take oil")
	turn(e, s, "take wick")
	testutil.AssertEqual(t, "nothing combined", s.Inventory.Len(), 3)
	testutil.AssertEqual(t, "lamp kept", s.Inventory.Get("lamp") == original, true)

	turn(e, s, "drop lamp")
	testutil.AssertEqual(t, "old lamp in room", shed.Items["lamp"] == original, true)
	testutil.AssertEqual(t, "inventory", strings.Join(s.Inventory.Names(), ","), "lamp")
	testutil.AssertEqual(t, "new lamp", s.Inventory.Get("lamp").UseText, "The new lamp glows.")
}

func TestHelpAndExit(t *testing.T) {
	e, s := newSession(t, keyWorld)

	testutil.AssertEqual(t, "help continues", e.ProcessTurn(s, "help"), true)
	testutil.AssertEqual(t, "help flag", s.showHelp, true)

	out := e.Render(s)
	if !strings.Contains(out, "Commands:") {
		t.Errorf("expected help in render, got %q", out)
	}
	testutil.AssertEqual(t, "help consumed", s.showHelp, false)

	testutil.AssertEqual(t, "exit", e.ProcessTurn(s, "exit"), false)
	testutil.AssertEqual(t, "done", s.Done(), true)
	testutil.AssertEqual(t, "after exit", e.ProcessTurn(s, "take key1"), false)
	testutil.AssertEqual(t, "no mutation", s.Inventory.Len(), 0)
}

func TestCaseFolding(t *testing.T) {
	e, s := newSession(t, keyWorld, models.WithCaseFolding())

	testutil.AssertEqual(t, "take", turn(e, s, "take KEY1"), "You take the key1")
	testutil.AssertEqual(t, "use", turn(e, s, "use Key1"), "The north door opened")
	e.ProcessTurn(s, "go NORTH")
	testutil.AssertEqual(t, "room", s.RoomKey(), "r1")
}
