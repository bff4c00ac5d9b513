package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/datafaker/internal/app"
	"github.com/dmitrijs2005/datafaker/internal/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := a.Run(context.Background()); err != nil {
		os.Exit(1)
	}
}
