package domain

import (
	"sort"
	"strings"
)

// PriceBand is an inclusive min/max price range. The storefront only
// offers the bands in PriceBands; arbitrary ranges are not accepted
// from the client.
type PriceBand struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// PriceBands is the closed set of filter bands shown on the listing page.
var PriceBands = []PriceBand{
	{Min: 0, Max: 1_000_000},
	{Min: 1_000_000, Max: 3_000_000},
	{Min: 3_000_000, Max: 6_000_000},
	{Min: 6_000_000, Max: 100_000_000},
}

// PriceBandAt returns the band for a 0-based index from PriceBands.
func PriceBandAt(idx int) (PriceBand, bool) {
	if idx < 0 || idx >= len(PriceBands) {
		return PriceBand{}, false
	}
	return PriceBands[idx], true
}

type SortKey string

const (
	SortDefault    SortKey = ""
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortGuestsAsc  SortKey = "guests_asc"
	SortGuestsDesc SortKey = "guests_desc"
)

const DefaultPageSize = 12

// ProductQuery describes one listing request: every set predicate must
// hold (conjunction), then a single stable sort, then a 1-based page.
type ProductQuery struct {
	Category string // exact match; "" or "all" disables the predicate
	Band     *PriceBand
	Guests   *int   // exact guest-count match
	Search   string // case-insensitive substring on name
	Sort     SortKey
	Page     int
	PageSize int
}

type QueryResult struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Pages int       `json:"pages"`
}

func (q ProductQuery) matches(p Product) bool {
	if q.Category != "" && q.Category != "all" && p.Category != q.Category {
		return false
	}
	if q.Band != nil && (p.Price < q.Band.Min || p.Price > q.Band.Max) {
		return false
	}
	if q.Guests != nil && p.Guests != *q.Guests {
		return false
	}
	if q.Search != "" && !containsFold(p.Name, q.Search) {
		return false
	}
	return true
}

// ApplyQuery filters, sorts and paginates a product snapshot in memory.
// Sorting is stable: ties keep the filter-output order, and the default
// sort key leaves that order untouched. Pagination slices
// [(page-1)*size, page*size) and clamps at both ends, so a page past
// the last match yields an empty (still valid) result.
func ApplyQuery(products []Product, q ProductQuery) QueryResult {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.matches(p) {
			out = append(out, p)
		}
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortGuestsAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Guests < out[j].Guests })
	case SortGuestsDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Guests > out[j].Guests })
	}

	total := len(out)
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return QueryResult{Items: out[start:end], Total: total, Page: page, Pages: pages}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
