package render

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/muesli/reflow/wordwrap"
	"github.com/tatianab/adventure/internal/logger"
	"github.com/tatianab/adventure/internal/models"
)

// DefaultWidth is the wrap width used when Options.Width is unset.
const DefaultWidth = 80

// HelpText lists the commands the player can type.
const HelpText = `Commands:
  go <exit>     walk through an exit ("go back" returns the way you came)
  take <item>   pick up an item
  use <item>    use an item you carry
  drop <item>   put down an item you carry
  help          show this list
  exit          leave the game`

const roomTemplate = `{{ .Description }}
{{- with .Items }}

Objects you can see: {{ join ", " . }}
{{- end }}
{{- with .Monsters }}
You see: {{ join ", " . }}
{{- end }}
{{- with .Exits }}
Exits: {{ join ", " . }}
{{- end }}
{{- with .Carrying }}

You are carrying: {{ join ", " . }}
{{- end }}
{{- with trim .Message }}

{{ . }}
{{- end }}
{{- if .Help }}

{{ .HelpText }}
{{- end }}`

var tmpl = template.Must(template.New("room").Funcs(sprig.TxtFuncMap()).Parse(roomTemplate))

// Options controls the shape of rendered text.
type Options struct {
	Width int
}

// View is everything shown for one turn. Message is the room's drained outbox.
type View struct {
	Room      *models.Room
	Inventory *models.Inventory
	Message   string
	Help      bool
}

type roomData struct {
	Description string
	Items       []string
	Monsters    []string
	Exits       []string
	Carrying    []string
	Message     string
	Help        bool
	HelpText    string
}

// Room renders v as text. It doesn't modify the room or inventory.
func Room(v View, opts Options) string {
	data := roomData{
		Description: v.Room.CurrentDescription(),
		Items:       v.Room.ItemNames(),
		Monsters:    v.Room.MonsterNames(),
		Message:     v.Message,
		Help:        v.Help,
		HelpText:    HelpText,
	}
	for _, d := range v.Room.VisibleDoors() {
		data.Exits = append(data.Exits, d.Name)
	}
	if v.Inventory != nil {
		data.Carrying = v.Inventory.Names()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.Error("rendering room", "room", v.Room.Name, "error", err)
		return Wrap(strings.TrimSpace(data.Description+"\n\n"+data.Message), opts.Width)
	}
	return Wrap(buf.String(), opts.Width)
}

// Wrap word-wraps text to width, or DefaultWidth when width is not positive.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}
