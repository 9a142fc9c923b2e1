package models

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// MalformedWorldError is returned when a world description can't be turned
// into a playable world.
type MalformedWorldError struct {
	Source string
	Err    error
}

func (e *MalformedWorldError) Error() string {
	return fmt.Sprintf("malformed world %s: %v", e.Source, e.Err)
}

func (e *MalformedWorldError) Unwrap() error {
	return e.Err
}

type loadOptions struct {
	keys Keyer
}

// LoadOption configures how a world is built.
type LoadOption func(*loadOptions)

// WithCaseFolding stores every name case-folded so lookups ignore case.
func WithCaseFolding() LoadOption {
	return func(o *loadOptions) {
		o.keys = FoldedKeys()
	}
}

// LoadWorld reads and builds the world description at path.
func LoadWorld(path string, opts ...LoadOption) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file: %w", err)
	}
	return ParseWorld(data, path, opts...)
}

// ParseWorld builds a world from YAML. source names the document in errors.
func ParseWorld(data []byte, source string, opts ...LoadOption) (*World, error) {
	var desc WorldDescription
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, &MalformedWorldError{Source: source, Err: fmt.Errorf("parsing YAML: %w", err)}
	}

	w, err := BuildWorld(&desc, opts...)
	if err != nil {
		return nil, &MalformedWorldError{Source: source, Err: err}
	}
	return w, nil
}

// BuildWorld validates desc and resolves defaults. Every problem found is
// reported, not just the first.
func BuildWorld(desc *WorldDescription, opts ...LoadOption) (*World, error) {
	o := loadOptions{keys: ExactKeys}
	for _, opt := range opts {
		opt(&o)
	}
	keys := o.keys

	el := errors.NewErrorList()

	if desc.StartRoom == "" {
		el.Add(fmt.Errorf("start_room is required"))
	}
	if len(desc.Rooms) == 0 {
		el.Add(fmt.Errorf("at least one room is required"))
	}

	declared := make(map[string]bool, len(desc.Rooms))
	for _, rr := range desc.Rooms {
		if rr.Name != "" {
			declared[keys(rr.Name)] = true
		}
	}

	start := keys(desc.StartRoom)
	if desc.StartRoom != "" && !declared[start] {
		el.Add(fmt.Errorf("start_room %q does not name a room", desc.StartRoom))
	}

	w := &World{
		Title:    desc.Title,
		Welcome:  desc.Welcome,
		Farewell: desc.Farewell,
		Start:    start,
		Rooms:    make(map[string]*Room, len(desc.Rooms)),
		keys:     keys,
	}

	seen := make(map[string]bool, len(desc.Rooms))
	for i, rr := range desc.Rooms {
		label := rr.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		if rr.Name != "" {
			k := keys(rr.Name)
			if seen[k] {
				el.Add(fmt.Errorf("room %s: declared more than once", label))
				continue
			}
			seen[k] = true
		}

		room, err := buildRoom(rr, start, declared, keys)
		if err != nil {
			el.Add(fmt.Errorf("room %s: %w", label, err))
			continue
		}
		w.Rooms[keys(rr.Name)] = room
	}

	for _, err := range checkCombinedNames(w, itemKeys(desc, keys)) {
		el.Add(err)
	}
	for _, err := range checkWarpChains(w) {
		el.Add(err)
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return w, nil
}

// itemKeys returns the key of every item placed in a room.
func itemKeys(desc *WorldDescription, keys Keyer) map[string]bool {
	placed := make(map[string]bool)
	for _, rr := range desc.Rooms {
		for _, ir := range rr.Items {
			if ir.Name != "" {
				placed[keys(ir.Name)] = true
			}
		}
	}
	return placed
}

// checkCombinedNames rejects recipes whose result would take the inventory
// slot of a placed item that the combination does not consume.
func checkCombinedNames(w *World, placed map[string]bool) []error {
	var errs []error
	var walk func(room string, r *Recipe)
	walk = func(room string, r *Recipe) {
		if r == nil {
			return
		}
		key := w.Key(r.Result.Name)
		if placed[key] && !slices.Contains(r.Parts, key) {
			errs = append(errs, fmt.Errorf("room %s: combined_name %q clashes with an item of the same name", room, r.Result.Name))
		}
		walk(room, r.Result.Recipe)
	}

	for _, k := range slices.Sorted(maps.Keys(w.Rooms)) {
		room := w.Rooms[k]
		for _, ik := range slices.Sorted(maps.Keys(room.Items)) {
			walk(room.Name, room.Items[ik].Recipe)
		}
	}
	return errs
}

// checkWarpChains rejects warp rooms whose destination chain never reaches a
// normal or end room.
func checkWarpChains(w *World) []error {
	var errs []error
	for _, k := range slices.Sorted(maps.Keys(w.Rooms)) {
		if w.Rooms[k].Type != RoomWarp {
			continue
		}
		visited := map[string]bool{}
		for at := k; ; {
			room, ok := w.Rooms[at]
			if !ok || room.Type != RoomWarp {
				break
			}
			if visited[at] {
				errs = append(errs, fmt.Errorf("room %s: warp loop never reaches a room the player can act in", w.Rooms[k].Name))
				break
			}
			visited[at] = true
			at = room.Destination
		}
	}
	return errs
}

func buildRoom(rr RoomRecord, start string, declared map[string]bool, keys Keyer) (*Room, error) {
	el := errors.NewErrorList()

	if rr.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if rr.Description == "" {
		el.Add(fmt.Errorf("description is required"))
	}

	room := NewRoom(rr.Name, rr.Description)
	room.EmptyDescription = rr.EmptyDescription

	switch rr.Type {
	case "", "normal":
		room.Type = RoomNormal
	case "warp":
		room.Type = RoomWarp
	case "end":
		room.Type = RoomEnd
	default:
		el.Add(fmt.Errorf("unknown type %q", rr.Type))
	}

	if room.Type == RoomWarp {
		room.Duration = DefaultWarpDuration
		if rr.Duration != nil {
			if *rr.Duration < 0 {
				el.Add(fmt.Errorf("duration must not be negative"))
			}
			room.Duration = *rr.Duration
		}
		room.Destination = start
		if rr.Destination != "" {
			room.Destination = keys(rr.Destination)
			if !declared[room.Destination] {
				el.Add(fmt.Errorf("warp destination %q does not name a room", rr.Destination))
			}
		}
	} else {
		if rr.Duration != nil {
			el.Add(fmt.Errorf("duration is only valid on warp rooms"))
		}
		if rr.Destination != "" {
			el.Add(fmt.Errorf("destination is only valid on warp rooms"))
		}
	}

	for _, ir := range rr.Items {
		it, err := buildItem(ir, keys)
		if err != nil {
			el.Add(fmt.Errorf("item %s: %w", ir.Name, err))
			continue
		}
		k := keys(ir.Name)
		if _, dup := room.Items[k]; dup {
			el.Add(fmt.Errorf("item %s: declared more than once", ir.Name))
			continue
		}
		room.Items[k] = it
	}

	for _, dr := range rr.Doors {
		d, err := buildDoor(dr, declared, keys)
		if err != nil {
			el.Add(fmt.Errorf("door %s: %w", dr.Name, err))
			continue
		}
		k := keys(dr.Name)
		if _, dup := room.Doors[k]; dup {
			el.Add(fmt.Errorf("door %s: declared more than once", dr.Name))
			continue
		}
		room.Doors[k] = d
	}

	for _, mr := range rr.Monsters {
		if mr.Name == "" {
			el.Add(fmt.Errorf("monster name is required"))
			continue
		}
		k := keys(mr.Name)
		if _, dup := room.Monsters[k]; dup {
			el.Add(fmt.Errorf("monster %s: declared more than once", mr.Name))
			continue
		}
		room.Monsters[k] = &Monster{Name: mr.Name, Attributes: mr.Attributes}
	}

	if err := el.Err(); err != nil {
		return nil, err
	}

	room.SnapshotItems()
	return room, nil
}

func buildItem(ir ItemRecord, keys Keyer) (*Item, error) {
	el := errors.NewErrorList()

	if ir.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	it := &Item{
		Name:               ir.Name,
		RequiredToTake:     dedupe(keys, ir.RequiredToTake),
		RequiredToTakeText: ir.RequiredToTakeText,
		TakeText:           ir.TakeText,
		RequiredToUse:      dedupe(keys, ir.RequiredToUse),
		RequiredToUseText:  ir.RequiredToUseText,
		UseText:            ir.UseText,
		CannotUseText:      ir.CannotUseText,
		RemoveAfterUse:     ir.RemoveAfterUse,
	}

	combines := len(ir.CombinesWith) > 0 || ir.CombinedName != "" || ir.CombinedItem != nil
	if combines {
		recipe, err := buildRecipe(ir, keys)
		if err != nil {
			el.Add(err)
		}
		it.Recipe = recipe
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return it, nil
}

func buildRecipe(ir ItemRecord, keys Keyer) (*Recipe, error) {
	el := errors.NewErrorList()

	if len(ir.CombinesWith) == 0 {
		el.Add(fmt.Errorf("combines_with is required when combining"))
	}
	if ir.CombinedName == "" {
		el.Add(fmt.Errorf("combined_name is required when combining"))
	}

	result := ItemRecord{}
	if ir.CombinedItem != nil {
		result = *ir.CombinedItem
		if result.Name != "" && keys(result.Name) != keys(ir.CombinedName) {
			el.Add(fmt.Errorf("combined_item name %q does not match combined_name %q", result.Name, ir.CombinedName))
		}
	}
	result.Name = ir.CombinedName

	parts := dedupe(keys, append([]string{ir.Name}, ir.CombinesWith...))
	if ir.CombinedName != "" && len(parts) < 2 {
		el.Add(fmt.Errorf("combines_with must name another item"))
	}

	if err := el.Err(); err != nil {
		return nil, err
	}

	combined, err := buildItem(result, keys)
	if err != nil {
		return nil, fmt.Errorf("combined_item %s: %w", ir.CombinedName, err)
	}

	return &Recipe{
		Parts:  parts,
		Result: combined,
		Text:   ir.CombinedText,
	}, nil
}

func buildDoor(dr DoorRecord, declared map[string]bool, keys Keyer) (*Door, error) {
	el := errors.NewErrorList()

	if dr.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if dr.Destination == "" {
		el.Add(fmt.Errorf("destination is required"))
	} else if !declared[keys(dr.Destination)] {
		el.Add(fmt.Errorf("destination %q does not name a room", dr.Destination))
	}

	d := &Door{
		Name:           dr.Name,
		Destination:    keys(dr.Destination),
		Open:           true,
		Keys:           dedupe(keys, dr.Keys),
		Hidden:         dr.Hidden,
		BlocksEntering: dedupe(keys, dr.BlocksEntering),
		BlocksText:     dr.BlocksText,
		Hint:           dr.Hint,
	}
	if dr.Open != nil {
		d.Open = *dr.Open
	}
	// A door with outstanding keys can't start open.
	if len(d.Keys) > 0 {
		d.Open = false
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return d, nil
}
