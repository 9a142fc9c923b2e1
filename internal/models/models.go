package models

import (
	"slices"
	"strings"
)

// RoomType controls whether the player interacts with a room or is moved through it.
type RoomType int

const (
	RoomNormal RoomType = iota
	RoomWarp
	RoomEnd
)

func (t RoomType) String() string {
	switch t {
	case RoomWarp:
		return "warp"
	case RoomEnd:
		return "end"
	default:
		return "normal"
	}
}

// DefaultWarpDuration is used for warp rooms that don't declare a duration.
const DefaultWarpDuration = 10

// World is the loaded room graph. Rooms are keyed by their (normalized) name.
type World struct {
	Title    string
	Welcome  string
	Farewell string
	Start    string
	Rooms    map[string]*Room

	keys Keyer
}

// Key normalizes a player-supplied or declared name into a lookup key.
func (w *World) Key(name string) string {
	if w.keys == nil {
		return name
	}
	return w.keys(name)
}

// Room returns the room stored under key.
func (w *World) Room(key string) (*Room, bool) {
	r, ok := w.Rooms[key]
	return r, ok
}

// Room represents a location in the world.
type Room struct {
	Name             string
	Description      string
	EmptyDescription string
	Type             RoomType

	// Destination and Duration only apply to warp rooms.
	Destination string
	Duration    int

	Items    map[string]*Item
	Doors    map[string]*Door
	Monsters map[string]*Monster

	// emptyWhen holds the keys of the items present at load time. Once none
	// of them remain the room shows EmptyDescription.
	emptyWhen []string
	message   string
}

// NewRoom creates a room with empty collections.
func NewRoom(name, description string) *Room {
	return &Room{
		Name:        name,
		Description: description,
		Items:       make(map[string]*Item),
		Doors:       make(map[string]*Door),
		Monsters:    make(map[string]*Monster),
	}
}

// SnapshotItems records the current item keys as the set that must be gone
// before the room counts as empty.
func (r *Room) SnapshotItems() {
	r.emptyWhen = make([]string, 0, len(r.Items))
	for k := range r.Items {
		r.emptyWhen = append(r.emptyWhen, k)
	}
	slices.Sort(r.emptyWhen)
}

// IsEmpty reports whether every snapshotted item has left the room.
func (r *Room) IsEmpty() bool {
	for _, k := range r.emptyWhen {
		if _, ok := r.Items[k]; ok {
			return false
		}
	}
	return true
}

// CurrentDescription picks the empty description once the room has been cleared.
func (r *Room) CurrentDescription() string {
	if r.EmptyDescription != "" && r.IsEmpty() {
		return r.EmptyDescription
	}
	return r.Description
}

// Post appends msg to the room's outbox.
func (r *Room) Post(msg string) {
	if msg == "" {
		return
	}
	if r.message == "" {
		r.message = msg
		return
	}
	r.message += "\n" + msg
}

// PendingMessage returns the outbox without draining it.
func (r *Room) PendingMessage() string {
	return r.message
}

// TakeMessage drains the outbox.
func (r *Room) TakeMessage() string {
	msg := r.message
	r.message = ""
	return msg
}

// ItemNames returns the display names of the items in the room, sorted.
func (r *Room) ItemNames() []string {
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		names = append(names, it.Name)
	}
	slices.Sort(names)
	return names
}

// VisibleDoors returns the doors that are not hidden, sorted by name.
func (r *Room) VisibleDoors() []*Door {
	var doors []*Door
	for _, d := range r.Doors {
		if !d.Hidden {
			doors = append(doors, d)
		}
	}
	slices.SortFunc(doors, func(a, b *Door) int { return strings.Compare(a.Name, b.Name) })
	return doors
}

// MonsterNames returns the names of the monsters in the room, sorted.
func (r *Room) MonsterNames() []string {
	names := make([]string, 0, len(r.Monsters))
	for _, m := range r.Monsters {
		names = append(names, m.Name)
	}
	slices.Sort(names)
	return names
}

// Door connects a room to a destination room.
type Door struct {
	Name        string
	Destination string
	Open        bool

	// Keys lists the item keys still needed to open the door, in declared order.
	Keys   []string
	Hidden bool

	// BlocksEntering lists item keys that stop the player passing while carried.
	BlocksEntering []string
	BlocksText     string
	Hint           string
}

// Locked reports whether the door still bars the way.
func (d *Door) Locked() bool {
	return !d.Open
}

// RequiresKey reports whether key is one of the outstanding keys.
func (d *Door) RequiresKey(key string) bool {
	return slices.Contains(d.Keys, key)
}

// ConsumeKey removes key from the outstanding keys. consumed is false when the
// door doesn't need key. Once the last key is used the door opens and is
// revealed, and it stays that way.
func (d *Door) ConsumeKey(key string) (consumed, opened bool) {
	i := slices.Index(d.Keys, key)
	if i < 0 {
		return false, false
	}
	d.Keys = slices.Delete(d.Keys, i, i+1)
	if len(d.Keys) == 0 {
		d.Open = true
		d.Hidden = false
		return true, true
	}
	return true, false
}

// Item is something the player can carry.
type Item struct {
	Name string

	RequiredToTake     []string
	RequiredToTakeText string
	TakeText           string

	RequiredToUse     []string
	RequiredToUseText string
	UseText           string
	CannotUseText     string
	RemoveAfterUse    bool

	Recipe *Recipe
}

// Recipe describes how an item combines with others into a new item.
type Recipe struct {
	// Parts are the item keys consumed by the combination.
	Parts  []string
	Result *Item
	Text   string
}

// Monster is carried through from the world description but not interpreted.
type Monster struct {
	Name       string
	Attributes map[string]any
}

// Inventory holds the items carried by the player.
type Inventory struct {
	Items map[string]*Item
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Items: make(map[string]*Item),
	}
}

// Add stores it under key.
func (inv *Inventory) Add(key string, it *Item) {
	inv.Items[key] = it
}

// Remove removes the item stored under key.
// Returns the removed item, or nil if not found.
func (inv *Inventory) Remove(key string) *Item {
	if it, ok := inv.Items[key]; ok {
		delete(inv.Items, key)
		return it
	}
	return nil
}

// Get returns the item stored under key, or nil if not found.
func (inv *Inventory) Get(key string) *Item {
	return inv.Items[key]
}

// Contains checks if an item is in the inventory.
func (inv *Inventory) Contains(key string) bool {
	_, ok := inv.Items[key]
	return ok
}

// ContainsAll checks that every key is carried.
func (inv *Inventory) ContainsAll(keys []string) bool {
	for _, k := range keys {
		if !inv.Contains(k) {
			return false
		}
	}
	return true
}

// ContainsAny checks whether at least one key is carried.
func (inv *Inventory) ContainsAny(keys []string) bool {
	return slices.ContainsFunc(keys, inv.Contains)
}

// Names returns the display names of the carried items, sorted.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.Items))
	for _, it := range inv.Items {
		names = append(names, it.Name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of carried items.
func (inv *Inventory) Len() int {
	return len(inv.Items)
}
