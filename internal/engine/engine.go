package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tatianab/adventure/internal/logger"
	"github.com/tatianab/adventure/internal/models"
	"github.com/tatianab/adventure/internal/render"
)

const (
	defaultTakeBlocked = "Can't touch this"
	defaultUseBlocked  = "You need another item to use this"
	defaultBlocksText  = "Something you carry prevents you entering"
)

// Options configures an Engine.
type Options struct {
	View render.Options
	// WarpUnit is the length of one unit of a warp room's duration.
	WarpUnit time.Duration
}

// Engine applies player commands to sessions.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// ProcessTurn parses and applies one line of input, then completes any
// combinations the player's inventory now allows. It reports whether the
// session should keep reading input.
func (e *Engine) ProcessTurn(s *Session, line string) bool {
	if s.Done() {
		return false
	}

	cmd := ParseCommand(line)
	room := s.Room()

	switch cmd.Action {
	case ActionHelp:
		s.showHelp = true
	case ActionExit:
		s.done = true
	case ActionGo:
		e.goThrough(s, cmd.Target)
	case ActionTake:
		e.take(s, cmd.Target)
	case ActionUse:
		e.use(s, cmd.Target)
	case ActionDrop:
		e.drop(s, cmd.Target)
	default:
		room.Post(strings.TrimSpace(fmt.Sprintf("You can not %s %s", cmd.Verb, cmd.Target)))
	}

	if s.err == nil {
		e.combine(s)
	}

	logger.Debug("turn",
		"session", s.ID,
		"room", room.Name,
		"action", string(cmd.Action),
		"target", cmd.Target,
		"now", s.at,
	)

	return !s.Done()
}

func (e *Engine) goThrough(s *Session, target string) {
	room := s.Room()
	key := s.World.Key(target)

	door, ok := room.Doors[key]
	if !ok && key == s.World.Key(BackDirection) && s.previous != "" {
		e.enter(s, s.previous)
		return
	}
	if !ok || door.Hidden {
		room.Post(fmt.Sprintf("You can not go %s", target))
		return
	}

	if door.Locked() {
		msg := fmt.Sprintf("The %s door is locked", door.Name)
		if door.Hint != "" {
			msg += "\n" + door.Hint
		}
		room.Post(msg)
		return
	}

	if s.Inventory.ContainsAny(door.BlocksEntering) {
		room.Post(or(door.BlocksText, defaultBlocksText))
		return
	}

	e.enter(s, door.Destination)
}

// enter moves the player to the room stored under key, halting the session
// if there is no such room.
func (e *Engine) enter(s *Session, key string) {
	if _, ok := s.World.Room(key); !ok {
		err := &RoomNotFoundError{Room: key}
		logger.Error("transition to missing room", "session", s.ID, "from", s.at, "to", key)
		s.halt(err)
		return
	}
	s.previous = s.at
	s.at = key
}

func (e *Engine) take(s *Session, target string) {
	room := s.Room()
	key := s.World.Key(target)

	it, ok := room.Items[key]
	if !ok {
		room.Post(fmt.Sprintf("There is no %s here", target))
		return
	}
	if !s.Inventory.ContainsAll(it.RequiredToTake) {
		room.Post(or(it.RequiredToTakeText, defaultTakeBlocked))
		return
	}
	if s.Inventory.Contains(key) {
		room.Post(fmt.Sprintf("You already carry a %s", it.Name))
		return
	}

	delete(room.Items, key)
	s.Inventory.Add(key, it)
	room.Post(or(it.TakeText, fmt.Sprintf("You take the %s", it.Name)))

	if it.Recipe != nil {
		s.register(it.Recipe)
	}
}

func (e *Engine) use(s *Session, target string) {
	room := s.Room()
	key := s.World.Key(target)

	it := s.Inventory.Get(key)
	if it == nil {
		room.Post(fmt.Sprintf("You are not carrying any %s", target))
		return
	}
	if !s.Inventory.ContainsAll(it.RequiredToUse) {
		room.Post(or(it.RequiredToUseText, defaultUseBlocked))
		return
	}

	used := false
	for _, door := range doorsByName(room) {
		if !door.RequiresKey(key) {
			continue
		}
		_, opened := door.ConsumeKey(key)
		used = true
		if opened {
			room.Post(or(it.UseText, fmt.Sprintf("The %s door opened", door.Name)))
		} else {
			room.Post(lockProgress(door))
		}
	}

	if !used {
		room.Post(or(it.CannotUseText, fmt.Sprintf("You can not use the %s here", it.Name)))
		return
	}
	if it.RemoveAfterUse {
		s.Inventory.Remove(key)
	}
}

func (e *Engine) drop(s *Session, target string) {
	room := s.Room()
	key := s.World.Key(target)

	it := s.Inventory.Get(key)
	if it == nil {
		room.Post(fmt.Sprintf("You are not carrying any %s", target))
		return
	}
	if _, clash := room.Items[key]; clash {
		room.Post(fmt.Sprintf("There is already a %s here", it.Name))
		return
	}

	s.Inventory.Remove(key)
	room.Items[key] = it
	room.Post(fmt.Sprintf("You dropped the %s", it.Name))
}

// combine assembles every pending combination whose parts are all carried.
// Assembled items may carry recipes of their own, so it repeats until
// nothing changes.
func (e *Engine) combine(s *Session) {
	for changed := true; changed; {
		changed = false
		for _, key := range s.pendingKeys() {
			r := s.Pending[key]
			if !s.Inventory.ContainsAll(r.Parts) {
				continue
			}
			// The result's slot must be free once the parts are gone.
			if s.Inventory.Contains(key) && !slices.Contains(r.Parts, key) {
				continue
			}
			for _, part := range r.Parts {
				s.Inventory.Remove(part)
			}
			s.Inventory.Add(key, r.Result)
			s.Room().Post(or(r.Text, fmt.Sprintf("You now have a %s", r.Result.Name)))
			delete(s.Pending, key)

			logger.Debug("combined", "session", s.ID, "item", r.Result.Name, "parts", r.Parts)

			if r.Result.Recipe != nil {
				s.register(r.Result.Recipe)
			}
			changed = true
		}
	}
}

// WarpDelay returns how long the player waits in a warp room.
func (e *Engine) WarpDelay(room *models.Room) time.Duration {
	return time.Duration(room.Duration) * e.opts.WarpUnit
}

// Warp moves the player out of a warp room to its destination. There is no
// way back through a warp.
func (e *Engine) Warp(s *Session) {
	room := s.Room()
	if room == nil || room.Type != models.RoomWarp {
		return
	}
	e.enter(s, room.Destination)
	s.previous = ""
}

// Render draws the current room, draining its message outbox and the help
// request.
func (e *Engine) Render(s *Session) string {
	room := s.Room()
	if room == nil {
		return ""
	}
	v := render.View{
		Room:      room,
		Inventory: s.Inventory,
		Message:   room.TakeMessage(),
		Help:      s.showHelp,
	}
	s.showHelp = false
	return render.Room(v, e.opts.View)
}

// HaltMessage is shown to the player when the session halts on err.
func HaltMessage(err error) string {
	return fmt.Sprintf("The world unravels around you and the game cannot continue (%v).", err)
}

func doorsByName(room *models.Room) []*models.Door {
	doors := make([]*models.Door, 0, len(room.Doors))
	for _, d := range room.Doors {
		doors = append(doors, d)
	}
	slices.SortFunc(doors, func(a, b *models.Door) int { return strings.Compare(a.Name, b.Name) })
	return doors
}

func lockProgress(d *models.Door) string {
	n := len(d.Keys)
	if n == 1 {
		return fmt.Sprintf("A lock on the %s door disengages. 1 lock remains", d.Name)
	}
	return fmt.Sprintf("A lock on the %s door disengages. %d locks remain", d.Name, n)
}

func or(text, fallback string) string {
	if text != "" {
		return text
	}
	return fallback
}
