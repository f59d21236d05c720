package category

import (
	"context"
	"fmt"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"

	log "github.com/sirupsen/logrus"
)

// MenuFetcher is the single client call the tree needs.
type MenuFetcher interface {
	GetCategoryMenu(ctx context.Context) ([]domain.CategoryNode, error)
}

// Tree is the category forest loaded once at startup. It is immutable for
// the rest of the run; hierarchy lookups go through a Resolver.
type Tree struct {
	roots []domain.CategoryNode
}

// NewTree fetches the category menu and builds the forest. There is no retry:
// the rest of the run is meaningless without the menu, so the caller should
// treat an error as fatal.
func NewTree(ctx context.Context, fetcher MenuFetcher) (*Tree, error) {
	roots, err := fetcher.GetCategoryMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category tree: %w", err)
	}

	log.Infof("Loaded category tree with %d root categories", len(roots))
	return &Tree{roots: roots}, nil
}

// NewTreeFromNodes builds a tree from an already-decoded forest.
func NewTreeFromNodes(roots []domain.CategoryNode) *Tree {
	return &Tree{roots: roots}
}
