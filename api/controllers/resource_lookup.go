package controllers

import (
	"errors"
	"net/http"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// lookupComment loads the comment named by the :id parameter and writes the
// error response itself when it cannot.
func (server *Server) lookupComment(c *gin.Context) (*models.Comment, bool) {
	id, ok := publicIDParam(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  map[string]string{"Invalid_request": "Invalid Request"},
		})
		return nil, false
	}
	comment, err := (&models.Comment{}).FindCommentByPublicID(server.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  map[string]string{"No_comment": "No Comment Found"},
			})
			return nil, false
		}
		logging.L().Errorw("comment lookup failed", "comment_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve comment"})
		return nil, false
	}
	return comment, true
}

// lookupOwnedComment is lookupComment restricted to the comment's author.
func (server *Server) lookupOwnedComment(c *gin.Context) (*models.Comment, bool) {
	comment, ok := server.lookupComment(c)
	if !ok {
		return nil, false
	}
	uid, _ := httpctx.CurrentUserID(c)
	if comment.UserID != uid {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  map[string]string{"Unauthorized": "Unauthorized"},
		})
		return nil, false
	}
	return comment, true
}

// lookupRun loads the tournament run named by :id. Runs owned by a user are
// only visible to that user; anonymous runs to anyone holding the ID.
func (server *Server) lookupRun(c *gin.Context, db *gorm.DB, forUpdate bool) (*models.TournamentRun, bool) {
	id, ok := publicIDParam(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
		return nil, false
	}
	run, err := (&models.TournamentRun{}).FindRunByPublicID(db, id, forUpdate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
			return nil, false
		}
		logging.L().Errorw("tournament lookup failed", "tournament_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve tournament"})
		return nil, false
	}
	if run.UserID != nil {
		uid, ok := httpctx.CurrentUserID(c)
		if !ok || uid != *run.UserID {
			// Owned runs are not disclosed to other callers.
			c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
			return nil, false
		}
	}
	return run, true
}
