package model

import "strings"

// Item is one owned thing. Category is a copied label, not a reference:
// renaming or deleting a category leaves existing items untouched.
type Item struct {
	ID        string `json:"id"`
	ImageName string `json:"imageName"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	Price     Price  `json:"price"`
}

// Equal compares by value, including the price amount.
func (it Item) Equal(o Item) bool {
	return it.ID == o.ID &&
		it.ImageName == o.ImageName &&
		it.Brand == o.Brand &&
		it.Category == o.Category &&
		it.Name == o.Name &&
		it.Price.Equal(o.Price)
}

// Matches reports whether query is a case-insensitive substring of the
// item's name or brand. An empty query matches everything.
func (it Item) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.Brand), q)
}
