package places

import (
	"math"
	"sort"
)

// Rank orders restaurants for req and caps the result at MaxResults. The
// input slice is not modified.
func Rank(restaurants []Restaurant, req SearchRequest) []Restaurant {
	req = req.Effective()
	out := make([]Restaurant, len(restaurants))
	copy(out, restaurants)

	var less func(a, b Restaurant) bool
	switch req.SortBy {
	case SortByDistance:
		less = func(a, b Restaurant) bool {
			return planarDistance(req.Location, a.Location) < planarDistance(req.Location, b.Location)
		}
	case SortByPrice:
		less = func(a, b Restaurant) bool { return a.priceOrUnknown() < b.priceOrUnknown() }
	case SortByReviews:
		less = func(a, b Restaurant) bool { return a.UserRatingsTotal > b.UserRatingsTotal }
	default:
		less = func(a, b Restaurant) bool { return a.Rating > b.Rating }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// planarDistance is the Euclidean distance in degrees. Good enough for
// ordering within a search radius.
func planarDistance(a, b Location) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng)
}

// AvailableCounts lists the tournament sizes a result set of n restaurants
// supports, smallest first.
func AvailableCounts(n int) []int {
	switch {
	case n >= 32:
		return []int{8, 16, 32}
	case n >= 16:
		return []int{8, 16}
	case n >= MinPoolSize:
		return []int{8}
	default:
		return nil
	}
}
