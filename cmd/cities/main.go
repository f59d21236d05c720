package main

import (
	"context"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/cities"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/client"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/config"

	log "github.com/sirupsen/logrus"
)

// Dumps the available cities and their ids as a table. Pick an id from the
// output and set it as fixprice.city_id before running the parser.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fixPriceClient := client.NewFixPriceClient(cfg.FixPrice)
	lister := cities.NewLister(fixPriceClient, cfg.Cities.OutputFile)

	if err := lister.Run(context.Background()); err != nil {
		log.Fatalf("Failed to dump city list: %v", err)
	}
}
