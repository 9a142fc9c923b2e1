package models

import (
	"gopkg.in/yaml.v3"
)

// WorldDescription is the declarative world document as written on disk.
type WorldDescription struct {
	Title     string       `yaml:"title"`
	Welcome   string       `yaml:"welcome"`
	Farewell  string       `yaml:"farewell"`
	StartRoom string       `yaml:"start_room"`
	Rooms     []RoomRecord `yaml:"rooms"`
}

// RoomRecord describes one room.
type RoomRecord struct {
	Name             string          `yaml:"name"`
	Description      string          `yaml:"description"`
	EmptyDescription string          `yaml:"emptyDescription"`
	Type             string          `yaml:"type"` // "", "warp" or "end"
	Duration         *int            `yaml:"duration"`
	Destination      string          `yaml:"destination"`
	Items            []ItemRecord    `yaml:"items"`
	Doors            []DoorRecord    `yaml:"doors"`
	Monsters         []MonsterRecord `yaml:"monsters"`
}

// ItemRecord describes an item and, optionally, what it combines into.
type ItemRecord struct {
	Name               string     `yaml:"name"`
	RequiredToTake     StringList `yaml:"requiredToTake"`
	RequiredToTakeText string     `yaml:"requiredToTakeText"`
	TakeText           string     `yaml:"takeText"`
	RequiredToUse      StringList `yaml:"requiredToUse"`
	RequiredToUseText  string     `yaml:"requiredToUseText"`
	UseText            string     `yaml:"useText"`
	CannotUseText      string     `yaml:"cannotUseText"`
	RemoveAfterUse     bool       `yaml:"removeAfterUse"`

	CombinesWith StringList  `yaml:"combines_with"`
	CombinedName string      `yaml:"combined_name"`
	CombinedItem *ItemRecord `yaml:"combined_item"`
	CombinedText string      `yaml:"combined_text"`
}

// DoorRecord describes an exit from a room.
type DoorRecord struct {
	Name           string     `yaml:"name"`
	Destination    string     `yaml:"destination"`
	Open           *bool      `yaml:"open"` // defaults to true
	Keys           StringList `yaml:"keys"`
	Hidden         bool       `yaml:"hidden"`
	BlocksEntering StringList `yaml:"blocks_entering"`
	BlocksText     string     `yaml:"blocks_text"`
	Hint           string     `yaml:"hint"`
}

// MonsterRecord keeps every attribute besides the name as opaque data.
type MonsterRecord struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:",inline"`
}

// StringList accepts either a single name or a sequence of names.
type StringList []string

// UnmarshalYAML satisfies yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		if value.Tag == "!!null" || value.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*l = names
	return nil
}
