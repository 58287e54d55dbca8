package catalog

import (
	"strings"

	"github.com/fjod/go_storefront/internal/domain"
)

// Filter returns the products matching both predicates, preserving the
// input order. A blank or whitespace-only term matches everything; a nil
// cooperative matches everything. The function is pure: it never mutates
// its input and keeps no state between calls.
func Filter(products []domain.Product, term string, cooperative *string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(term))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matchesTerm(p, needle) {
			continue
		}
		if cooperative != nil && p.Cooperative != *cooperative {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesTerm(p domain.Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}
