package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/security"
	"RestaurantAdviser/api/utils/fileformat"
	"RestaurantAdviser/api/utils/formaterror"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 512_000

// CreateUser handles user registration
func (server *Server) CreateUser(c *gin.Context) {
	var user models.User

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	userCreated, err := user.SaveUser(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"errors": formattedError})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": userToDTO(userCreated, true),
	})
}

// GetUser returns a public profile by numeric or public ID.
func (server *Server) GetUser(c *gin.Context) {
	user := models.User{}
	userGotten, err := user.FindUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	uid, _ := httpctx.CurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToDTO(userGotten, uid == userGotten.ID),
	})
}

// UpdateAvatar stores an uploaded profile picture. Routed behind
// SelfOnlyMiddleware.
func (server *Server) UpdateAvatar(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	if server.Avatars == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Avatar uploads are not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	}
	if file.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (<500KB)"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open file"})
		return
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes+1))
	if err != nil || len(buf) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file"})
		return
	}
	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not an image"})
		return
	}

	filePath := fileformat.UniqueFormat(file.Filename)
	if err := server.Avatars.Put(c.Request.Context(), filePath, fileType, buf); err != nil {
		logging.L().Errorw("avatar upload failed", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	user := models.User{AvatarPath: filePath}
	updatedUser, err := user.UpdateAUserAvatar(server.DB, uid)
	if err != nil {
		logging.L().Errorw("avatar path update failed", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save image, please try again later"})
		return
	}
	updatedUser.AvatarPath = server.Avatars.URL(filePath)

	logging.L().Infow("avatar updated", "user_id", uid)
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(updatedUser, true)})
}

// UpdateUser allows a user to update their email and password
func (server *Server) UpdateUser(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	var requestBody map[string]string
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot parse request body"})
		return
	}

	formerUser := models.User{}
	err := server.DB.Model(&models.User{}).Where("id = ?", uid).Take(&formerUser).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	newUser := models.User{}
	newUser.Username = formerUser.Username // Usernames are immutable

	if currentPassword, ok := requestBody["current_password"]; ok {
		newPassword, ok := requestBody["new_password"]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New password is required"})
			return
		}
		if len(newPassword) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password should be at least 6 characters"})
			return
		}
		if err := security.VerifyPassword(formerUser.Password, currentPassword); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}
		newUser.Password = newPassword
	}

	if email, ok := requestBody["email"]; ok {
		newUser.Email = email
	} else {
		newUser.Email = formerUser.Email
	}

	newUser.Prepare()
	errorMessages := newUser.Validate("update")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	updatedUser, err := newUser.UpdateAUser(server.DB, uid)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"errors": formattedError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToDTO(updatedUser, true),
	})
}

// DeleteUser deletes a user and their associated data
func (server *Server) DeleteUser(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	user := models.User{}
	if _, err := user.DeleteAUser(server.DB, uid); err != nil {
		logging.L().Errorw("delete user failed", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	invalidateWinnerHistoryCache(uid)

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "User deleted",
	})
}
