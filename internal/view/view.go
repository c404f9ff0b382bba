// Package view derives the visible subset of items from the current
// category selection and search text. Nothing here is cached.
package view

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/idilsaglam/mythings/internal/model"
)

// All is the synthetic category that passes every item.
const All = "All"

// Filter applies the category filter, then the text query, and keeps the
// underlying order. An unknown category yields an empty result.
func Filter(items []model.Item, category, query string) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if category != All && it.Category != category {
			continue
		}
		if !it.Matches(query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Selection is the state a browser keeps between renders.
type Selection struct {
	Category string
	Query    string
}

func NewSelection() Selection {
	return Selection{Category: All}
}

func (s Selection) Apply(items []model.Item) []model.Item {
	cat := s.Category
	if cat == "" {
		cat = All
	}
	return Filter(items, cat, s.Query)
}

// CategoryNames is the tab strip: "All" first, then names in list order.
func CategoryNames(categories []model.Category) []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, All)
	for _, c := range categories {
		out = append(out, c.Name)
	}
	return out
}

// Cycle moves index by delta and wraps around n entries.
func Cycle(index, delta, n int) int {
	if n <= 0 {
		return 0
	}
	i := (index + delta) % n
	if i < 0 {
		i += n
	}
	return i
}

// IndexOf returns the position of name in names, or -1.
func IndexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Stats summarizes a projection for the header line.
type Stats struct {
	Count    int
	Total    decimal.Decimal
	Unpriced int // items whose price text is not a number
}

func Summary(items []model.Item) Stats {
	st := Stats{Count: len(items), Total: decimal.Zero}
	for _, it := range items {
		if !it.Price.Valid() {
			st.Unpriced++
			continue
		}
		st.Total = st.Total.Add(it.Price.Decimal())
	}
	return st
}

// OrphanLabels lists item categories that no category in the list carries.
func OrphanLabels(items []model.Item, categories []model.Category) []string {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Name] = true
	}
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if known[it.Category] || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

// MatchCategory returns the first category named like name, ignoring case.
// Used by the CLI so "-c shoes" finds "Shoes".
func MatchCategory(names []string, name string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
