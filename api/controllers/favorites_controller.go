package controllers

import (
	"errors"
	"net/http"
	"strings"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/places"
	"RestaurantAdviser/api/utils/formaterror"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// favoriteRequest is the restaurant snapshot a client saves.
type favoriteRequest struct {
	PlaceID          string          `json:"place_id"`
	Name             string          `json:"name"`
	Address          string          `json:"address"`
	Location         places.Location `json:"location"`
	Rating           float64         `json:"rating"`
	UserRatingsTotal int             `json:"user_ratings_total"`
	PriceLevel       *int            `json:"price_level"`
	PhotoReference   string          `json:"photo_reference"`
}

func (server *Server) GetFavorites(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	favorites, err := (&models.Favorite{}).FindUserFavorites(server.DB, uid)
	if err != nil {
		logging.L().Errorw("list favorites failed", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No favorites found"})
		return
	}

	response := make([]FavoriteDTO, len(*favorites))
	for i := range *favorites {
		response[i] = favoriteToDTO(&(*favorites)[i])
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": response})
}

// GetFavorite reports whether the place is one of the user's favorites.
func (server *Server) GetFavorite(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)
	placeID := strings.TrimSpace(c.Param("place_id"))

	favorite, err := (&models.Favorite{}).FindFavorite(server.DB, uid, placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"status":   http.StatusOK,
				"response": gin.H{"place_id": placeID, "favorite": false},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": gin.H{"place_id": placeID, "favorite": true, "restaurant": favoriteToDTO(favorite)},
	})
}

// SaveFavorite adds a favorite, overwriting the stored snapshot when the
// place is already saved.
func (server *Server) SaveFavorite(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	favorite := models.Favorite{
		UserID:           uid,
		PlaceID:          req.PlaceID,
		Name:             req.Name,
		Address:          req.Address,
		Latitude:         req.Location.Lat,
		Longitude:        req.Location.Lng,
		Rating:           req.Rating,
		UserRatingsTotal: req.UserRatingsTotal,
		PriceLevel:       req.PriceLevel,
		PhotoReference:   req.PhotoReference,
	}
	favorite.Prepare()
	errorMessages := favorite.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	saved, err := favorite.SaveFavorite(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": favoriteToDTO(saved)})
}

func (server *Server) DeleteFavorite(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)
	placeID := strings.TrimSpace(c.Param("place_id"))

	deleted, err := (&models.Favorite{}).DeleteFavorite(server.DB, uid, placeID)
	if err != nil {
		logging.L().Errorw("delete favorite failed", "user_id", uid, "place_id", placeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Favorite deleted"})
}
