// Package catalog holds read-side helpers over the cached collections.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"netobebidas/backend/internal/domain"
)

// FilterByName returns the products whose name contains the query,
// case-insensitively, sorted by name. An empty query returns the full
// collection, still sorted. The input slice is never touched.
func FilterByName(products []domain.Product, query string) []domain.Product {
	return filterSorted(products, func(p domain.Product) string { return p.Name }, query)
}

// FilterCustomersByName is FilterByName over the customer collection.
func FilterCustomersByName(customers []domain.Customer, query string) []domain.Customer {
	return filterSorted(customers, func(c domain.Customer) string { return c.Name }, query)
}

// SortByName orders products in place using pt-BR collation, so accented
// names land where a Brazilian shelf would put them instead of after "z".
func SortByName(products []domain.Product) {
	sortByName(products, func(p domain.Product) string { return p.Name })
}

func filterSorted[T any](items []T, nameOf func(T) string, query string) []T {
	needle := strings.ToLower(strings.TrimSpace(query))

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || strings.Contains(strings.ToLower(nameOf(item)), needle) {
			matched = append(matched, item)
		}
	}
	sortByName(matched, nameOf)
	return matched
}

func sortByName[T any](items []T, nameOf func(T) string) {
	collator := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(nameOf(items[i]), nameOf(items[j])) < 0
	})
}
