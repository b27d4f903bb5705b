package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"

	"github.com/gin-gonic/gin"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const resetMailTimeout = 15 * time.Second

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token          string `json:"token"`
	NewPassword    string `json:"new_password"`
	RetypePassword string `json:"retype_password"`
}

// ForgotPassword e-mails a reset link. Unknown addresses get the same
// answer as known ones.
func (server *Server) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": "Cannot unmarshal body"})
		return
	}

	user := models.User{Email: req.Email}
	user.Prepare()
	if errorMessages := user.Validate("forgotpassword"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	sent := gin.H{"status": http.StatusOK, "response": "If the account exists, a reset link has been sent"}

	found, err := user.FindUserByEmail(server.DB, user.Email)
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			logging.L().Errorw("forgot password lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
			return
		}
		c.JSON(http.StatusOK, sent)
		return
	}

	if server.Mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "E-mail is not configured"})
		return
	}

	reset := models.ResetPassword{Email: found.Email, Token: uuid.NewV4().String()}
	reset.Prepare()
	if _, err := reset.SaveResetPassword(server.DB); err != nil {
		logging.L().Errorw("save reset token failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), resetMailTimeout)
	defer cancel()
	if err := server.Mailer.SendPasswordReset(ctx, found.Email, found.Username, reset.Token); err != nil {
		logging.L().Errorw("send reset e-mail failed", "user_id", found.ID, "error", err)
		_, _ = reset.DeleteResetPassword(server.DB)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not send the reset e-mail"})
		return
	}

	c.JSON(http.StatusOK, sent)
}

// ResetPassword sets a new password for the holder of a valid token.
// Tokens are single use.
func (server *Server) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": "Cannot unmarshal body"})
		return
	}

	errorMessages := map[string]string{}
	if req.Token == "" {
		errorMessages["Required_token"] = "Token is required"
	}
	if len(req.NewPassword) < 6 {
		errorMessages["Invalid_password"] = "Password should be at least 6 characters"
	}
	if req.NewPassword != req.RetypePassword {
		errorMessages["Password_mismatch"] = "Passwords do not match"
	}
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	found, err := (&models.ResetPassword{}).FindValidToken(server.DB, req.Token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  map[string]string{"Invalid_token": "Invalid or expired link, please request a new one"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	user := models.User{Email: found.Email, Password: req.NewPassword}
	if err := user.UpdatePassword(server.DB); err != nil {
		logging.L().Errorw("update password failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}
	if _, err := found.DeleteResetPassword(server.DB); err != nil {
		logging.L().Warnw("delete used reset token failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Password reset"})
}
