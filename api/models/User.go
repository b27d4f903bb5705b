package models

import (
	"errors"
	"html"
	"os"
	"strings"
	"time"

	"RestaurantAdviser/api/security"
	"RestaurantAdviser/api/storage"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned by the user finders.
var ErrUserNotFound = errors.New("User not found")

type User struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID   string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Username   string    `gorm:"size:255;not null;unique" json:"username"`
	Email      string    `gorm:"size:100;not null;unique" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"password,omitempty"`
	AvatarPath string    `gorm:"size:255;null;" json:"avatar_path"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return u.HashPassword()
}

// AfterFind expands a stored avatar file name into its public URL.
func (u *User) AfterFind(tx *gorm.DB) (err error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	bucket := strings.SplitN(os.Getenv("S3_BUCKET"), "/", 2)[0]
	u.AvatarPath = storage.AvatarURL(bucket, region, u.AvatarPath)
	return nil
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Username)))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "update", "forgotpassword":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
	case "login":
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
	default:
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Password != "" && len(u.Password) < 6 {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
	}

	if u.Email != "" {
		if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["Invalid_email"] = "Invalid Email"
		}
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	err := db.Where("id = ?", uid).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByIdentifier accepts either the numeric ID or the public UUID.
func (u *User) FindUserByIdentifier(db *gorm.DB, identifier string) (*User, error) {
	var user User
	query := db.Where("public_id = ?", identifier)
	if isNumeric(identifier) {
		query = db.Where("id = ?", identifier)
	}
	if err := query.Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateAUser writes e-mail and, when set, a new plain-text password.
func (u *User) UpdateAUser(db *gorm.DB, uid uint) (*User, error) {
	updates := map[string]interface{}{
		"email":      u.Email,
		"updated_at": time.Now(),
	}
	if u.Password != "" {
		if err := u.HashPassword(); err != nil {
			return nil, err
		}
		updates["password"] = u.Password
	}

	if err := db.Model(&User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		return nil, err
	}
	return u.FindUserByID(db, uid)
}

func (u *User) UpdateAUserAvatar(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"avatar_path": u.AvatarPath,
		"updated_at":  time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return u.FindUserByID(db, uid)
}

// DeleteAUser removes the user together with everything they own.
func (u *User) DeleteAUser(db *gorm.DB, uid uint) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&Comment{}).Where("user_id = ?", uid).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&CommentLike{}).Error; err != nil {
				return err
			}
		}
		steps := []interface{}{&CommentLike{}, &Comment{}, &Favorite{}, &TournamentRun{}}
		for _, model := range steps {
			if err := tx.Where("user_id = ?", uid).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", uid).Delete(&User{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// UpdatePassword sets a new password for the account with u.Email.
func (u *User) UpdatePassword(db *gorm.DB) error {
	if err := u.HashPassword(); err != nil {
		return err
	}
	return db.Model(&User{}).Where("email = ?", u.Email).Updates(map[string]interface{}{
		"password":   u.Password,
		"updated_at": time.Now(),
	}).Error
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
