package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tatianab/adventure/internal/logger"
	"github.com/tatianab/adventure/internal/models"
)

// Presenter is the I/O boundary of the game loop.
type Presenter interface {
	// Show displays text to the player.
	Show(text string) error
	// ReadLine blocks for the next line of input. io.EOF ends the game.
	ReadLine() (string, error)
	// Delay blocks for d.
	Delay(d time.Duration)
}

// Run plays s to completion: render, read, apply, repeat. End rooms stop the
// loop after they are shown and warp rooms move on by themselves after their
// delay. A halted session shows a final message and Run returns its error.
func (e *Engine) Run(ctx context.Context, s *Session, p Presenter) error {
	logger.Info("session started", "session", s.ID, "world", s.World.Title, "start", s.at)

	if s.World.Welcome != "" {
		if err := p.Show(s.World.Welcome); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Err(); err != nil {
			_ = p.Show(HaltMessage(err))
			return err
		}
		if s.done {
			logger.Info("session exited", "session", s.ID, "room", s.at)
			return nil
		}

		room := s.Room()
		if room == nil {
			s.halt(&RoomNotFoundError{Room: s.at})
			continue
		}
		if err := p.Show(e.Render(s)); err != nil {
			return err
		}

		switch room.Type {
		case models.RoomEnd:
			logger.Info("session finished", "session", s.ID, "room", s.at)
			if s.World.Farewell != "" {
				return p.Show(s.World.Farewell)
			}
			return nil
		case models.RoomWarp:
			p.Delay(e.WarpDelay(room))
			e.Warp(s)
			continue
		}

		line, err := p.ReadLine()
		if errors.Is(err, io.EOF) {
			logger.Info("input closed", "session", s.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		e.ProcessTurn(s, line)
	}
}
