package catalogclient

import (
	"cmp"
	"slices"
	"strings"
)

const CategoryAll = "all"

// Sort orders accepted by View.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortRating    = "rating"
)

// Query selects and orders what a listing shows. Zero values mean no filter and no reordering.
type Query struct {
	Search   string
	Category string
	Sort     string
}

// SearchProducts filters the local list by a case-insensitive substring of name, category or description.
// It never calls the server and never mutates the cache.
func (c *Cache) SearchProducts(query string) []Product {
	products := c.Products()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// View applies search, category filter and sort order to a snapshot of the cache.
func (c *Cache) View(q Query) []Product {
	products := c.SearchProducts(q.Search)
	if q.Category != "" && q.Category != CategoryAll {
		products = slices.DeleteFunc(products, func(p Product) bool {
			return p.Category == nil || *p.Category != q.Category
		})
	}
	sortProducts(products, q.Sort)
	return products
}

// Categories lists the distinct categories present, sorted.
func (c *Cache) Categories() []string {
	var out []string
	for _, p := range c.Products() {
		if p.Category != nil && *p.Category != "" && !slices.Contains(out, *p.Category) {
			out = append(out, *p.Category)
		}
	}
	slices.Sort(out)
	return out
}

func matches(p Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if p.Category != nil && strings.Contains(strings.ToLower(*p.Category), q) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q)
}

func sortProducts(products []Product, order string) {
	var less func(a, b Product) int
	switch order {
	case SortNewest:
		less = func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortPriceAsc:
		less = func(a, b Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		less = func(a, b Product) int { return cmp.Compare(b.Price, a.Price) }
	case SortNameAsc:
		less = func(a, b Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case SortNameDesc:
		less = func(a, b Product) int { return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name)) }
	case SortRating:
		// unrated last
		less = func(a, b Product) int { return cmp.Compare(rating(b), rating(a)) }
	default:
		return
	}
	slices.SortStableFunc(products, less)
}

func rating(p Product) float64 {
	if p.Rating == nil {
		return -1
	}
	return *p.Rating
}

// ValidSort reports whether order is a known sort order.
func ValidSort(order string) bool {
	switch order {
	case "", SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortRating:
		return true
	}
	return false
}
