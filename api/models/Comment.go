package models

import (
	"encoding/json"
	"html"
	"strings"
	"time"

	"RestaurantAdviser/api/sentiment"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

type Comment struct {
	ID        uint               `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string             `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	PlaceID   string             `gorm:"size:255;not null;index" json:"place_id"`
	Author    User               `gorm:"foreignKey:UserID" json:"author"`
	Body      string             `gorm:"text;not null;" json:"body"`
	Aspects   []sentiment.Aspect `gorm:"type:text;serializer:json" json:"aspects"`
	CreatedAt time.Time          `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time          `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(c.PublicID) == "" {
		c.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Body = html.EscapeString(strings.TrimSpace(c.Body))
	c.PlaceID = strings.TrimSpace(c.PlaceID)
	c.Author = User{}
	c.Aspects = nil
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *Comment) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	if c.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	}
	if len(c.Body) > maxCommentLength {
		errorMessages["Invalid_body"] = "Body is too long"
	}
	if strings.ToLower(action) != "update" {
		if c.UserID == 0 {
			errorMessages["Required_user"] = "User is required"
		}
		if c.PlaceID == "" {
			errorMessages["Required_place"] = "Place is required"
		}
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetComments lists a place's comments, newest first, with their authors.
func (c *Comment) GetComments(db *gorm.DB, placeID string) (*[]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").Where("place_id = ?", placeID).
		Order("created_at desc").Order("id desc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return &comments, nil
}

func (c *Comment) FindCommentByPublicID(db *gorm.DB, publicID string) (*Comment, error) {
	var comment Comment
	if err := db.Preload("Author").Where("public_id = ?", publicID).Take(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateAComment replaces the body and clears aspects until they are
// recomputed.
func (c *Comment) UpdateAComment(db *gorm.DB) (*Comment, error) {
	c.UpdatedAt = time.Now()
	c.Aspects = nil
	err := db.Model(&Comment{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"body":       c.Body,
		"aspects":    "[]",
		"updated_at": c.UpdatedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SetAspects stores aspects computed for body. It is a no-op if the comment
// was edited or deleted in the meantime.
func (c *Comment) SetAspects(db *gorm.DB, body string, aspects []sentiment.Aspect) (bool, error) {
	if aspects == nil {
		aspects = []sentiment.Aspect{}
	}
	encoded, err := json.Marshal(aspects)
	if err != nil {
		return false, err
	}
	result := db.Model(&Comment{}).
		Where("id = ? AND body = ?", c.ID, body).
		Update("aspects", string(encoded))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", c.ID).Delete(&CommentLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", c.ID).Delete(&Comment{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
