package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/tatianab/adventure/internal/app"
	"github.com/tatianab/adventure/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		var mwe *models.MalformedWorldError
		if errors.As(err, &mwe) {
			fmt.Printf("Could not load world %s:\n%v\n", mwe.Source, mwe.Err)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}
