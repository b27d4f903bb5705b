package controllers

import (
	"time"

	"RestaurantAdviser/api/places"
	"RestaurantAdviser/api/sentiment"
)

type UserDTO struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	AvatarPath string    `json:"avatar_path"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CommentDTO struct {
	ID         string             `json:"id"`
	PlaceID    string             `json:"place_id"`
	UserID     string             `json:"user_id"`
	Username   string             `json:"username"`
	AvatarPath string             `json:"avatar_path"`
	Body       string             `json:"body"`
	Aspects    []sentiment.Aspect `json:"aspects"`
	LikesCount int64              `json:"likes_count"`
	Liked      bool               `json:"liked"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type FavoriteDTO struct {
	PlaceID          string          `json:"place_id"`
	Name             string          `json:"name"`
	Address          string          `json:"address"`
	Location         places.Location `json:"location"`
	Rating           float64         `json:"rating"`
	UserRatingsTotal int             `json:"user_ratings_total"`
	PriceLevel       *int            `json:"price_level"`
	PhotoReference   string          `json:"photo_reference"`
	SavedAt          time.Time       `json:"saved_at"`
}

type NearbyDTO struct {
	Restaurants     []places.Restaurant `json:"restaurants"`
	AvailableCounts []int               `json:"available_counts"`
}
