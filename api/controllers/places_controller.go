package controllers

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"

	"RestaurantAdviser/api/cache"
	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/metrics"
	"RestaurantAdviser/api/places"

	"github.com/gin-gonic/gin"
)

const defaultSearchRadius = 1000

// parseSearch reads lat, lng, radius and sort from the query string.
func parseSearch(c *gin.Context) (places.SearchRequest, map[string]string) {
	errorMessages := map[string]string{}
	req := places.SearchRequest{Radius: defaultSearchRadius, SortBy: places.SortByRating}

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		errorMessages["Invalid_lat"] = "A latitude between -90 and 90 is required"
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		errorMessages["Invalid_lng"] = "A longitude between -180 and 180 is required"
	}
	req.Location = places.Location{Lat: lat, Lng: lng}

	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil || radius <= 0 || radius > places.AnyDistance {
			errorMessages["Invalid_radius"] = "Radius must be between 1 and 5001 metres"
		}
		req.Radius = radius
	}
	if raw := c.Query("sort"); raw != "" {
		sortBy, err := strconv.Atoi(raw)
		if err != nil || !places.SortBy(sortBy).Valid() {
			errorMessages["Invalid_sort"] = "Sort must be 1 (rating), 2 (distance), 3 (price) or 4 (reviews)"
		}
		req.SortBy = places.SortBy(sortBy)
	}
	return req.Effective(), errorMessages
}

// nearby serves a ranked search from the shared cache when possible.
func (server *Server) nearby(ctx context.Context, req places.SearchRequest) ([]places.Restaurant, error) {
	key := req.CacheKey()
	var cached []places.Restaurant
	found, err := cache.GetJSON(ctx, key, &cached)
	if err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		logging.L().Warnw("nearby cache read failed", "key", key, "error", err)
	}
	if found {
		metrics.PlacesCacheLookups.WithLabelValues("nearby", metrics.ResultHit).Inc()
		return cached, nil
	}
	metrics.PlacesCacheLookups.WithLabelValues("nearby", metrics.ResultMiss).Inc()

	restaurants, err := server.Places.NearbySearch(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, restaurants, server.NearbyTTL); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		logging.L().Warnw("nearby cache write failed", "key", key, "error", err)
	}
	return restaurants, nil
}

// GetNearby lists ranked restaurants around a point together with the
// tournament sizes the result supports.
func (server *Server) GetNearby(c *gin.Context) {
	req, errorMessages := parseSearch(c)
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	restaurants, err := server.nearby(c.Request.Context(), req)
	if err != nil {
		server.placesError(c, err)
		return
	}
	if restaurants == nil {
		restaurants = []places.Restaurant{}
	}
	counts := places.AvailableCounts(len(restaurants))
	if counts == nil {
		counts = []int{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": NearbyDTO{Restaurants: restaurants, AvailableCounts: counts},
	})
}

func (server *Server) GetRestaurant(c *gin.Context) {
	restaurant, err := server.Places.Details(c.Request.Context(), c.Param("place_id"))
	if err != nil {
		server.placesError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": restaurant})
}

// Shakeomat picks one restaurant at random from the nearby pool. The
// optional exclude parameter avoids repeating the previous pick.
func (server *Server) Shakeomat(c *gin.Context) {
	req, errorMessages := parseSearch(c)
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	restaurants, err := server.nearby(c.Request.Context(), req)
	if err != nil {
		server.placesError(c, err)
		return
	}

	pool := restaurants
	if exclude := c.Query("exclude"); exclude != "" && len(restaurants) > 1 {
		pool = make([]places.Restaurant, 0, len(restaurants))
		for _, r := range restaurants {
			if r.PlaceID != exclude {
				pool = append(pool, r)
			}
		}
	}
	if len(pool) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurants found, increase the distance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": pool[rand.Intn(len(pool))]})
}

func (server *Server) placesError(c *gin.Context, err error) {
	var statusErr *places.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.Status == "ZERO_RESULTS":
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
	case errors.As(err, &statusErr) && statusErr.Status == "INVALID_REQUEST":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		logging.L().Errorw("places request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Restaurant search is unavailable, please try again later"})
	}
}
