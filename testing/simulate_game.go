package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tatianab/adventure/internal/engine"
	"github.com/tatianab/adventure/internal/logger"
	"github.com/tatianab/adventure/internal/models"
	"github.com/tatianab/adventure/internal/render"
	"github.com/tatianab/adventure/worlds"
)

const maxTurns = 500

// scriptPlayer feeds a fixed list of commands to the game and prints the
// transcript, skipping warp delays.
type scriptPlayer struct {
	lines []string
	turn  int
}

func (p *scriptPlayer) Show(text string) error {
	fmt.Println(text)
	fmt.Println()
	return nil
}

func (p *scriptPlayer) ReadLine() (string, error) {
	if p.turn >= len(p.lines) || p.turn >= maxTurns {
		return "", fmt.Errorf("script ended after %d turns without finishing the game", p.turn)
	}
	line := p.lines[p.turn]
	p.turn++
	fmt.Printf("--- Turn %d ---\n> %s\n", p.turn, line)
	return line, nil
}

func (p *scriptPlayer) Delay(d time.Duration) {
	fmt.Printf("(%s pass)\n\n", d)
}

func main() {
	world := flag.String("world", "builtin:boris", "world description to play (file path or builtin:<name>)")
	script := flag.String("script", "", "file with one command per line; blank lines and # comments are skipped")
	fold := flag.Bool("fold", false, "ignore case in names")
	flag.Parse()

	if err := logger.Initialize(logger.Config{Level: "DEBUG", Console: true}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	lines, err := readScript(*script)
	if err != nil {
		log.Fatalf("Failed to read script: %v", err)
	}
	logger.Infof("playing %s with %d scripted commands", *world, len(lines))

	var opts []models.LoadOption
	if *fold {
		opts = append(opts, models.WithCaseFolding())
	}
	w, err := worlds.Load(*world, opts...)
	if err != nil {
		log.Fatalf("Failed to load world: %v", err)
	}

	eng := engine.NewEngine(engine.Options{View: render.Options{Width: render.DefaultWidth}})
	session := engine.NewSession(w)
	player := &scriptPlayer{lines: lines}

	runErr := eng.Run(context.Background(), session, player)

	fmt.Println("--- Result ---")
	fmt.Printf("Turns: %d\n", player.turn)
	fmt.Printf("Room: %s\n", session.Room().Name)
	fmt.Printf("Inventory: %v\n", session.Inventory.Names())
	fmt.Printf("Finished: %v\n", session.Done())
	if runErr != nil {
		log.Fatalf("Game stopped: %v", runErr)
	}
}

func readScript(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("-script is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
