package category

import (
	"strings"
	"sync"
)

// Resolver maps slash-delimited category slug paths to hierarchies of
// category titles. Results are memoized for the lifetime of the run; the
// cache is safe for concurrent population and values are idempotent per key,
// so a compute-then-insert-if-absent discipline is enough.
type Resolver struct {
	tree  *Tree
	cache sync.Map // slug path -> []string
}

func NewResolver(tree *Tree) *Resolver {
	return &Resolver{tree: tree}
}

// Resolve walks the forest level by level, matching each path segment
// against sibling aliases and collecting matched titles root to leaf. A
// segment with no match at its level contributes nothing and the walk
// continues at the same level; this is deliberate, not an error.
func (r *Resolver) Resolve(slugPath string) []string {
	if cached, ok := r.cache.Load(slugPath); ok {
		return cached.([]string)
	}

	hierarchy := make([]string, 0)
	siblings := r.tree.roots
	for _, segment := range strings.Split(slugPath, "/") {
		for _, node := range siblings {
			if node.Alias == segment {
				hierarchy = append(hierarchy, node.Title)
				siblings = node.Items
				break
			}
		}
	}

	actual, _ := r.cache.LoadOrStore(slugPath, hierarchy)
	return actual.([]string)
}
