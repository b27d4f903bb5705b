package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Favorite is a saved restaurant with a snapshot of its listing.
type Favorite struct {
	ID               uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_favorite_user_place" json:"user_id"`
	PlaceID          string    `gorm:"size:255;not null;uniqueIndex:idx_favorite_user_place" json:"place_id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Address          string    `gorm:"size:512" json:"address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Rating           float64   `json:"rating"`
	UserRatingsTotal int       `json:"user_ratings_total"`
	PriceLevel       *int      `json:"price_level"`
	PhotoReference   string    `gorm:"size:512" json:"photo_reference"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (f *Favorite) Prepare() {
	f.ID = 0
	f.PlaceID = strings.TrimSpace(f.PlaceID)
	f.Name = html.EscapeString(strings.TrimSpace(f.Name))
	f.Address = html.EscapeString(strings.TrimSpace(f.Address))
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
}

func (f *Favorite) Validate() map[string]string {
	errorMessages := make(map[string]string)
	if f.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	if f.PlaceID == "" {
		errorMessages["Required_place"] = "Place is required"
	}
	if f.Name == "" {
		errorMessages["Required_name"] = "Name is required"
	}
	if f.PriceLevel != nil && (*f.PriceLevel < 0 || *f.PriceLevel > 4) {
		errorMessages["Invalid_price_level"] = "Price level must be between 0 and 4"
	}
	return errorMessages
}

// SaveFavorite inserts the favorite or overwrites the snapshot of an
// existing one for the same user and place.
func (f *Favorite) SaveFavorite(db *gorm.DB) (*Favorite, error) {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "place_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "address", "latitude", "longitude", "rating",
			"user_ratings_total", "price_level", "photo_reference", "updated_at",
		}),
	}).Create(f).Error
	if err != nil {
		return nil, err
	}
	return f.FindFavorite(db, f.UserID, f.PlaceID)
}

func (f *Favorite) FindFavorite(db *gorm.DB, uid uint, placeID string) (*Favorite, error) {
	var favorite Favorite
	if err := db.Where("user_id = ? AND place_id = ?", uid, placeID).Take(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (f *Favorite) FindUserFavorites(db *gorm.DB, uid uint) (*[]Favorite, error) {
	favorites := []Favorite{}
	err := db.Where("user_id = ?", uid).Order("updated_at desc").Order("id desc").Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return &favorites, nil
}

func (f *Favorite) DeleteFavorite(db *gorm.DB, uid uint, placeID string) (int64, error) {
	result := db.Where("user_id = ? AND place_id = ?", uid, placeID).Delete(&Favorite{})
	return result.RowsAffected, result.Error
}
