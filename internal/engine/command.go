package engine

import (
	"strings"
	"unicode"
)

// Action is the verb of a player command.
type Action string

const (
	ActionGo      Action = "go"
	ActionTake    Action = "take"
	ActionUse     Action = "use"
	ActionDrop    Action = "drop"
	ActionHelp    Action = "help"
	ActionExit    Action = "exit"
	ActionUnknown Action = ""
)

var actions = map[string]Action{
	"go":   ActionGo,
	"take": ActionTake,
	"use":  ActionUse,
	"drop": ActionDrop,
	"help": ActionHelp,
	"exit": ActionExit,
}

// Command is one parsed line of player input.
type Command struct {
	Action Action
	// Verb is the first word as typed.
	Verb   string
	Target string
}

// ParseCommand splits line on its first run of whitespace into a verb and
// a target. Verbs that need a target but lack one become help.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Action: ActionHelp}
	}

	verb, target := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		verb, target = line[:i], strings.TrimSpace(line[i:])
	}

	action, ok := actions[verb]
	if !ok {
		return Command{Action: ActionUnknown, Verb: verb, Target: target}
	}

	switch action {
	case ActionGo, ActionTake, ActionUse, ActionDrop:
		if target == "" {
			return Command{Action: ActionHelp, Verb: verb}
		}
	}

	return Command{Action: action, Verb: verb, Target: target}
}
