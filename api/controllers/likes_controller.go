package controllers

import (
	"net/http"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/models"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// ToggleCommentLike likes a comment, or unlikes it when already liked.
func (server *Server) ToggleCommentLike(c *gin.Context) {
	comment, ok := server.lookupComment(c)
	if !ok {
		return
	}
	uid, _ := httpctx.CurrentUserID(c)

	like := models.CommentLike{CommentID: comment.ID, UserID: uid}
	liked, err := like.ToggleLike(server.DB)
	if err != nil {
		logging.L().Errorw("toggle like failed", "comment_id", comment.PublicID, "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	counts, err := models.CountLikes(server.DB, []uint{comment.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"comment_id":  comment.PublicID,
			"liked":       liked,
			"likes_count": counts[comment.ID],
		},
	})
}
