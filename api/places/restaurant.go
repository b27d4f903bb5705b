// Package places talks to the Places web service and turns nearby restaurants
// into tournament pools.
package places

import "fmt"

type SortBy int

const (
	SortByRating SortBy = iota + 1
	SortByDistance
	SortByPrice
	SortByReviews
)

func (s SortBy) Valid() bool {
	return s >= SortByRating && s <= SortByReviews
}

const (
	// MaxResults caps every nearby search.
	MaxResults = 32

	// AnyDistance is the "5 km+" radius choice. It widens the search to
	// anyDistanceRadius and forces distance ordering.
	AnyDistance       = 5001
	anyDistanceRadius = 100000

	// unknownPriceLevel sorts places without price information last.
	unknownPriceLevel = 10
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) String() string {
	return fmt.Sprintf("%f,%f", l.Lat, l.Lng)
}

type Restaurant struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Rating           float64  `json:"rating"`
	Address          string   `json:"address"`
	Location         Location `json:"location"`
	PhotoReference   string   `json:"photo_reference,omitempty"`
	PhotoReferences  []string `json:"photo_references,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	OpenNow          *bool    `json:"open_now,omitempty"`
	OpeningHours     []string `json:"opening_hours,omitempty"`
}

func (r Restaurant) priceOrUnknown() int {
	if r.PriceLevel == nil {
		return unknownPriceLevel
	}
	return *r.PriceLevel
}

// SearchRequest describes one nearby search. Radius is in metres.
type SearchRequest struct {
	Location Location `json:"location"`
	Radius   int      `json:"radius"`
	SortBy   SortBy   `json:"sort_by"`
}

// Effective applies the AnyDistance rule and the default ordering.
func (r SearchRequest) Effective() SearchRequest {
	out := r
	if out.Radius == AnyDistance {
		out.Radius = anyDistanceRadius
		out.SortBy = SortByDistance
	}
	if !out.SortBy.Valid() {
		out.SortBy = SortByRating
	}
	return out
}

// CacheKey identifies a search for the shared nearby cache. Coordinates are
// rounded to roughly 100 m so nearby callers share entries.
func (r SearchRequest) CacheKey() string {
	e := r.Effective()
	return fmt.Sprintf("places_nearby:%.3f:%.3f:%d:%d", e.Location.Lat, e.Location.Lng, e.Radius, e.SortBy)
}
