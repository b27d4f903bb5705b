package controllers

import (
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/places"
	"RestaurantAdviser/api/sentiment"
)

func userToDTO(user *models.User, withEmail bool) UserDTO {
	dto := UserDTO{
		ID:         user.PublicID,
		Username:   user.Username,
		AvatarPath: user.AvatarPath,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
	if withEmail {
		dto.Email = user.Email
	}
	return dto
}

func commentToDTO(comment *models.Comment, likes int64, liked bool) CommentDTO {
	aspects := comment.Aspects
	if aspects == nil {
		aspects = []sentiment.Aspect{}
	}
	return CommentDTO{
		ID:         comment.PublicID,
		PlaceID:    comment.PlaceID,
		UserID:     comment.Author.PublicID,
		Username:   comment.Author.Username,
		AvatarPath: comment.Author.AvatarPath,
		Body:       comment.Body,
		Aspects:    aspects,
		LikesCount: likes,
		Liked:      liked,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

func favoriteToDTO(f *models.Favorite) FavoriteDTO {
	return FavoriteDTO{
		PlaceID:          f.PlaceID,
		Name:             f.Name,
		Address:          f.Address,
		Location:         places.Location{Lat: f.Latitude, Lng: f.Longitude},
		Rating:           f.Rating,
		UserRatingsTotal: f.UserRatingsTotal,
		PriceLevel:       f.PriceLevel,
		PhotoReference:   f.PhotoReference,
		SavedAt:          f.UpdatedAt,
	}
}
