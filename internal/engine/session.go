package engine

import (
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/tatianab/adventure/internal/models"
)

// BackDirection returns the player to the room they came from when the
// current room has no door of that name.
const BackDirection = "back"

// Session is one player's run through a world. It owns the world it was
// given; start a new session from a freshly loaded world to replay.
type Session struct {
	ID        string
	World     *models.World
	Inventory *models.Inventory

	// Pending maps a combined item key to the recipe that will build it.
	Pending map[string]*models.Recipe

	at       string
	previous string
	showHelp bool
	done     bool
	err      error
}

// NewSession places a new player in the world's start room.
func NewSession(w *models.World) *Session {
	return &Session{
		ID:        uuid.NewString(),
		World:     w,
		Inventory: models.NewInventory(),
		Pending:   make(map[string]*models.Recipe),
		at:        w.Start,
	}
}

// Room returns the room the player is in.
func (s *Session) Room() *models.Room {
	return s.World.Rooms[s.at]
}

// RoomKey returns the key of the room the player is in.
func (s *Session) RoomKey() string {
	return s.at
}

// Done reports whether the session has finished, by exit, halt or end room.
func (s *Session) Done() bool {
	if s.done || s.err != nil {
		return true
	}
	r := s.Room()
	return r != nil && r.Type == models.RoomEnd
}

// Err returns the invariant violation that halted the session, if any.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) halt(err error) {
	s.err = err
	s.done = true
}

// register adds r to the pending combinations, merging parts if another
// part already registered the same result.
func (s *Session) register(r *models.Recipe) {
	key := s.World.Key(r.Result.Name)
	p, ok := s.Pending[key]
	if !ok {
		s.Pending[key] = &models.Recipe{
			Parts:  slices.Clone(r.Parts),
			Result: r.Result,
			Text:   r.Text,
		}
		return
	}
	for _, part := range r.Parts {
		if !slices.Contains(p.Parts, part) {
			p.Parts = append(p.Parts, part)
		}
	}
	if p.Text == "" {
		p.Text = r.Text
	}
}

func (s *Session) pendingKeys() []string {
	return slices.Sorted(maps.Keys(s.Pending))
}
