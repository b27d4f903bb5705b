package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func price(p int) *int { return &p }

func ids(rs []Restaurant) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PlaceID
	}
	return out
}

func TestRank(t *testing.T) {
	origin := Location{Lat: 0, Lng: 0}
	rs := []Restaurant{
		{PlaceID: "a", Rating: 4.1, PriceLevel: price(3), UserRatingsTotal: 10, Location: Location{Lat: 0.03}},
		{PlaceID: "b", Rating: 4.8, UserRatingsTotal: 500, Location: Location{Lat: 0.01}},
		{PlaceID: "c", Rating: 3.9, PriceLevel: price(1), UserRatingsTotal: 90, Location: Location{Lng: 0.02}},
	}

	cases := []struct {
		sort SortBy
		want []string
	}{
		{SortByRating, []string{"b", "a", "c"}},
		{SortByDistance, []string{"b", "c", "a"}},
		{SortByPrice, []string{"c", "a", "b"}},
		{SortByReviews, []string{"b", "c", "a"}},
		{SortBy(0), []string{"b", "a", "c"}},
	}
	for _, tc := range cases {
		got := Rank(rs, SearchRequest{Location: origin, Radius: 1000, SortBy: tc.sort})
		assert.Equal(t, tc.want, ids(got), "sort=%d", tc.sort)
	}

	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, ids(rs))
}

func TestRankCapsResults(t *testing.T) {
	rs := make([]Restaurant, 50)
	assert.Len(t, Rank(rs, SearchRequest{}), MaxResults)
}

func TestAvailableCounts(t *testing.T) {
	assert.Nil(t, AvailableCounts(7))
	assert.Equal(t, []int{8}, AvailableCounts(8))
	assert.Equal(t, []int{8}, AvailableCounts(15))
	assert.Equal(t, []int{8, 16}, AvailableCounts(16))
	assert.Equal(t, []int{8, 16}, AvailableCounts(31))
	assert.Equal(t, []int{8, 16, 32}, AvailableCounts(32))
}

func TestSearchRequestEffective(t *testing.T) {
	e := SearchRequest{Radius: AnyDistance, SortBy: SortByPrice}.Effective()
	assert.Equal(t, anyDistanceRadius, e.Radius)
	assert.Equal(t, SortByDistance, e.SortBy)

	a := SearchRequest{Location: Location{Lat: 52.2297, Lng: 21.0122}, Radius: 1000, SortBy: SortByRating}
	b := SearchRequest{Location: Location{Lat: 52.2298, Lng: 21.0121}, Radius: 1000, SortBy: SortByRating}
	assert.Equal(t, a.CacheKey(), b.CacheKey())
}
