package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type CommentLike struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like_user;index" json:"user_id"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ToggleLike likes the comment for the user, or removes the like if it
// already exists. It reports whether the comment is liked afterwards.
func (l *CommentLike) ToggleLike(db *gorm.DB) (bool, error) {
	liked := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing CommentLike
		err := tx.Where("comment_id = ? AND user_id = ?", l.CommentID, l.UserID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.CreatedAt = time.Now()
			if err := tx.Create(l).Error; err != nil {
				return err
			}
			liked = true
			return nil
		case err != nil:
			return err
		default:
			return tx.Where("id = ?", existing.ID).Delete(&CommentLike{}).Error
		}
	})
	return liked, err
}

// CountLikes returns the number of likes per comment ID.
func CountLikes(db *gorm.DB, commentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID uint
		Total     int64
	}
	err := db.Model(&CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CommentID] = row.Total
	}
	return counts, nil
}

// LikedBy returns the subset of commentIDs the user has liked.
func LikedBy(db *gorm.DB, userID uint, commentIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := db.Model(&CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
