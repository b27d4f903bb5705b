package controllers

import (
	"errors"
	"net/http"

	"RestaurantAdviser/api/auth"
	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/security"
	"RestaurantAdviser/api/utils/formaterror"

	"github.com/gin-gonic/gin"
)

func (server *Server) Login(c *gin.Context) {
	user := models.User{}
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}
	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, err := server.SignIn(user.Email, user.Password)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

// SignIn checks the credentials and issues a token.
func (server *Server) SignIn(email, password string) (map[string]interface{}, error) {
	user, err := (&models.User{}).FindUserByEmail(server.DB, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, errors.New("record not found")
		}
		return nil, err
	}
	if err := security.VerifyPassword(user.Password, password); err != nil {
		return nil, err
	}
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		logging.L().Errorw("create token failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	userData := map[string]interface{}{
		"token":       token,
		"id":          user.PublicID,
		"email":       user.Email,
		"avatar_path": user.AvatarPath,
		"username":    user.Username,
	}
	return userData, nil
}
