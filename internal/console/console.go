package console

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// Prompt is printed before each line of input.
const Prompt = "\n> "

// Console is a line-at-a-time presenter over a reader and writer.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	sleep func(time.Duration)
}

// New creates a console reading commands from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		sleep: time.Sleep,
	}
}

// Show writes text followed by a blank line.
func (c *Console) Show(text string) error {
	_, err := fmt.Fprintf(c.out, "\n%s\n", text)
	return err
}

// ReadLine prompts and reads one line. It returns io.EOF when input ends.
func (c *Console) ReadLine() (string, error) {
	if _, err := io.WriteString(c.out, Prompt); err != nil {
		return "", err
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

// Delay blocks the game for d.
func (c *Console) Delay(d time.Duration) {
	c.sleep(d)
}
