package listing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceRange is a buyer-side price-per-kg bucket.
type PriceRange string

const (
	PriceAll       PriceRange = "all"
	Price0To100    PriceRange = "0-100"
	Price100To500  PriceRange = "100-500"
	Price500To1000 PriceRange = "500-1000"
	Price1000AndUp PriceRange = "1000+"
)

// PriceRanges returns the buckets in display order.
func PriceRanges() []PriceRange {
	return []PriceRange{PriceAll, Price0To100, Price100To500, Price500To1000, Price1000AndUp}
}

// ParsePriceRange returns the matching bucket, or PriceAll for anything unrecognised.
func ParsePriceRange(raw string) PriceRange {
	raw = strings.TrimSpace(raw)
	for _, r := range PriceRanges() {
		if string(r) == raw {
			return r
		}
	}
	return PriceAll
}

// Contains reports whether price falls within the bucket. Lower bounds are inclusive,
// upper bounds exclusive, so each price belongs to exactly one bucket.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	lo, hi, bounded := r.bounds()
	if !bounded {
		return true
	}
	if price.LessThan(lo) {
		return false
	}
	return hi.IsZero() || price.LessThan(hi)
}

func (r PriceRange) bounds() (lo, hi decimal.Decimal, bounded bool) {
	switch r {
	case Price0To100:
		return decimal.Zero, decimal.NewFromInt(100), true
	case Price100To500:
		return decimal.NewFromInt(100), decimal.NewFromInt(500), true
	case Price500To1000:
		return decimal.NewFromInt(500), decimal.NewFromInt(1000), true
	case Price1000AndUp:
		return decimal.NewFromInt(1000), decimal.Zero, true
	default:
		return decimal.Zero, decimal.Zero, false
	}
}

// Filter narrows a listing collection the way the buyer pages do.
// Empty fields match everything.
type Filter struct {
	Category Category
	Price    PriceRange
	Query    string
	State    string
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return strings.TrimSpace(string(f.Category)) != "" ||
		(f.Price != "" && f.Price != PriceAll) ||
		strings.TrimSpace(f.Query) != "" ||
		strings.TrimSpace(f.State) != ""
}

// Match reports whether l satisfies every criterion.
func (f Filter) Match(l Listing) bool {
	if c := strings.TrimSpace(string(f.Category)); c != "" && !strings.EqualFold(c, "all") && !l.Category.Matches(f.Category) {
		return false
	}
	if !f.Price.Contains(l.PricePerKg) {
		return false
	}
	if st := strings.TrimSpace(f.State); st != "" && !strings.EqualFold(st, strings.TrimSpace(l.State)) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(strings.Join([]string{l.Description, l.City, l.State, string(l.Category)}, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// Apply returns the listings matching f, preserving order. The input is not modified.
func (f Filter) Apply(listings []Listing) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// CategoryCount is the number of listings in a category.
type CategoryCount struct {
	Category Category
	Count    int
}

// CountByCategory tallies listings per known category in display order, followed by any
// unrecognised categories sorted by name. Categories with no listings are included as zero.
func CountByCategory(listings []Listing) []CategoryCount {
	counts := make(map[Category]int)
	for _, l := range listings {
		c, ok := ParseCategory(string(l.Category))
		if !ok && c == "" {
			continue
		}
		counts[c]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for _, c := range Categories() {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
		delete(counts, c)
	}

	extra := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		extra = append(extra, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Category < extra[j].Category })
	return append(out, extra...)
}

// StatusCounts tallies a seller's listings by status. Listings without a status count as active.
func StatusCounts(listings []Listing) (active, sold int) {
	for _, l := range listings {
		if l.Status.Is(StatusSold) {
			sold++
			continue
		}
		active++
	}
	return active, sold
}

// GroupByCategory groups listings by category, keyed by the canonical category name.
func GroupByCategory(listings []Listing) map[Category][]Listing {
	out := make(map[Category][]Listing)
	for _, l := range listings {
		c, _ := ParseCategory(string(l.Category))
		out[c] = append(out[c], l)
	}
	return out
}

// Pick returns the listings whose ids are in set, preserving order.
func Pick(listings []Listing, set IDSet) []Listing {
	out := make([]Listing, 0, set.Len())
	for _, l := range listings {
		if set.Has(l.ID) {
			out = append(out, l)
		}
	}
	return out
}
