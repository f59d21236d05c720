package cities

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
)

// CityFetcher is the single client call the lister needs.
type CityFetcher interface {
	GetCities(ctx context.Context) ([]domain.City, error)
}

// Lister dumps the city reference list as a grid-formatted table. It is a
// one-shot utility, independent of the catalog crawl.
type Lister struct {
	fetcher    CityFetcher
	outputFile string
}

func NewLister(fetcher CityFetcher, outputFile string) *Lister {
	return &Lister{
		fetcher:    fetcher,
		outputFile: outputFile,
	}
}

// Run fetches the cities and writes the table to the configured file.
func (l *Lister) Run(ctx context.Context) error {
	cities, err := l.fetcher.GetCities(ctx)
	if err != nil {
		return err
	}

	file, err := os.Create(l.outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", l.outputFile, err)
	}
	defer file.Close()

	WriteTable(file, cities)

	log.Infof("✅ Wrote %d cities to %s", len(cities), l.outputFile)
	return nil
}

// WriteTable renders the city list as a two-column grid table, sorted by
// city name ascending. The sort is stable: cities with equal names keep
// their original order.
func WriteTable(w io.Writer, cities []domain.City) {
	sorted := make([]domain.City, len(cities))
	copy(sorted, cities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"City", "ID"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	for _, city := range sorted {
		table.Append([]string{city.Name, strconv.Itoa(city.ID)})
	}
	table.Render()
}
