package controllers

import (
	"context"
	"fmt"

	"RestaurantAdviser/api/cache"
	"RestaurantAdviser/api/places"
)

func winnerHistoryKey(userID uint, limit int) string {
	return fmt.Sprintf("user_winners:%d:%d", userID, limit)
}

func invalidateWinnerHistoryCache(userID uint) {
	if userID == 0 {
		return
	}
	_ = cache.DeleteByPrefix(context.Background(), fmt.Sprintf("user_winners:%d:", userID))
}

// cachedPlaces routes pool searches through the shared nearby cache so a
// tournament started from the swipe list sees the same ranking.
type cachedPlaces struct {
	server *Server
}

func (p cachedPlaces) NearbySearch(ctx context.Context, req places.SearchRequest) ([]places.Restaurant, error) {
	return p.server.nearby(ctx, req)
}

func (p cachedPlaces) Details(ctx context.Context, placeID string) (places.Restaurant, error) {
	return p.server.Places.Details(ctx, placeID)
}
