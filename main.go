package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tatianab/adventure/internal/app"
)

// Shortcut for `go run .`; cmd/game is the full entry point.
func main() {
	if err := app.Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
