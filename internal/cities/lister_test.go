package cities

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"
)

type fakeFetcher struct {
	cities []domain.City
	err    error
}

func (f *fakeFetcher) GetCities(ctx context.Context) ([]domain.City, error) {
	return f.cities, f.err
}

func TestWriteTable_SortsByName(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []domain.City{
		{Name: "Moscow", ID: 2},
		{Name: "Kazan", ID: 5},
		{Name: "Arkhangelsk", ID: 1},
	})

	out := buf.String()

	if !strings.Contains(out, "City") || !strings.Contains(out, "ID") {
		t.Errorf("table header missing:\n%s", out)
	}

	arkhangelsk := strings.Index(out, "Arkhangelsk")
	kazan := strings.Index(out, "Kazan")
	moscow := strings.Index(out, "Moscow")
	if arkhangelsk < 0 || kazan < 0 || moscow < 0 {
		t.Fatalf("missing city rows:\n%s", out)
	}
	if !(arkhangelsk < kazan && kazan < moscow) {
		t.Errorf("rows not sorted by name ascending:\n%s", out)
	}
}

func TestWriteTable_DoesNotMutateInput(t *testing.T) {
	cities := []domain.City{
		{Name: "Moscow", ID: 2},
		{Name: "Arkhangelsk", ID: 1},
	}

	var buf bytes.Buffer
	WriteTable(&buf, cities)

	if cities[0].Name != "Moscow" {
		t.Errorf("input slice reordered: %+v", cities)
	}
}

func TestLister_Run(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "available_cities.txt")
	lister := NewLister(&fakeFetcher{cities: []domain.City{
		{Name: "Kazan", ID: 5},
		{Name: "Arkhangelsk", ID: 1},
	}}, outputFile)

	if err := lister.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	content, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	out := string(content)
	if !strings.Contains(out, "Arkhangelsk") || !strings.Contains(out, "5") {
		t.Errorf("unexpected table contents:\n%s", out)
	}
	if strings.Index(out, "Arkhangelsk") > strings.Index(out, "Kazan") {
		t.Errorf("rows not sorted:\n%s", out)
	}
}

func TestLister_Run_FetchError(t *testing.T) {
	lister := NewLister(&fakeFetcher{err: errors.New("boom")}, filepath.Join(t.TempDir(), "out.txt"))
	if err := lister.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
