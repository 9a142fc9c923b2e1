// Package worlds bundles the world descriptions shipped with the game.
package worlds

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/tatianab/adventure/internal/models"
)

// BuiltinPrefix marks a world reference as one of the embedded worlds.
const BuiltinPrefix = "builtin:"

//go:embed *.yaml
var files embed.FS

// Names lists the embedded worlds.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return names
}

// Load builds the world ref points at: builtin:<name> for an embedded world,
// anything else is a file path. Each call returns a fresh world.
func Load(ref string, opts ...models.LoadOption) (*models.World, error) {
	name, ok := strings.CutPrefix(ref, BuiltinPrefix)
	if !ok {
		return models.LoadWorld(ref, opts...)
	}

	data, err := files.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin world %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return models.ParseWorld(data, ref, opts...)
}
