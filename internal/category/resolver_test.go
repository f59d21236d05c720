package category

import (
	"reflect"
	"sync"
	"testing"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"
)

func testTree() *Tree {
	return NewTreeFromNodes([]domain.CategoryNode{
		{
			Alias: "toys",
			Title: "Toys",
			Items: []domain.CategoryNode{
				{Alias: "cars", Title: "Cars"},
				{
					Alias: "dolls",
					Title: "Dolls",
					Items: []domain.CategoryNode{
						{Alias: "soft", Title: "Soft Dolls"},
					},
				},
			},
		},
		{Alias: "home", Title: "Home"},
	})
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		slugPath string
		want     []string
	}{
		{
			name:     "single segment",
			slugPath: "toys",
			want:     []string{"Toys"},
		},
		{
			name:     "two segments",
			slugPath: "toys/cars",
			want:     []string{"Toys", "Cars"},
		},
		{
			name:     "three segments",
			slugPath: "toys/dolls/soft",
			want:     []string{"Toys", "Dolls", "Soft Dolls"},
		},
		{
			name:     "unmatched leaf contributes nothing",
			slugPath: "toys/planes",
			want:     []string{"Toys"},
		},
		{
			// An unmatched segment does not advance the level, so the next
			// segment is still matched against the same siblings.
			name:     "unmatched first segment keeps level",
			slugPath: "nope/home",
			want:     []string{"Home"},
		},
		{
			name:     "nothing matches",
			slugPath: "a/b/c",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(testTree())
			got := r.Resolve(tt.slugPath)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.slugPath, got, tt.want)
			}
		})
	}
}

func TestResolver_CachesPerSlugPath(t *testing.T) {
	r := NewResolver(testTree())

	first := r.Resolve("toys/cars")
	second := r.Resolve("toys/cars")

	if len(first) == 0 || len(second) == 0 {
		t.Fatalf("expected non-empty hierarchy, got %v and %v", first, second)
	}
	if &first[0] != &second[0] {
		t.Error("expected second Resolve to return the cached slice")
	}
}

func TestResolver_ConcurrentResolve(t *testing.T) {
	r := NewResolver(testTree())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := r.Resolve("toys/dolls/soft")
			if len(got) != 3 {
				t.Errorf("Resolve returned %v, want 3 titles", got)
			}
		}()
	}
	wg.Wait()
}
