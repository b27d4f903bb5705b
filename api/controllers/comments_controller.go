package controllers

import (
	"context"
	"html"
	"net/http"
	"strings"

	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/metrics"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/utils/formaterror"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Body string `json:"body"`
}

// GetComments lists a place's comments, newest first.
func (server *Server) GetComments(c *gin.Context) {
	placeID := strings.TrimSpace(c.Param("place_id"))

	comments, err := (&models.Comment{}).GetComments(server.DB, placeID)
	if err != nil {
		logging.L().Errorw("list comments failed", "place_id", placeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No comments found"})
		return
	}

	ids := make([]uint, len(*comments))
	for i, comment := range *comments {
		ids[i] = comment.ID
	}
	likes, err := models.CountLikes(server.DB, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No comments found"})
		return
	}
	uid, _ := httpctx.CurrentUserID(c)
	liked, err := models.LikedBy(server.DB, uid, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No comments found"})
		return
	}

	response := make([]CommentDTO, len(*comments))
	for i := range *comments {
		comment := &(*comments)[i]
		response[i] = commentToDTO(comment, likes[comment.ID], liked[comment.ID])
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": response,
	})
}

func (server *Server) CreateComment(c *gin.Context) {
	uid, _ := httpctx.CurrentUserID(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	comment := models.Comment{
		UserID:  uid,
		PlaceID: c.Param("place_id"),
		Body:    req.Body,
	}
	comment.Prepare()
	errorMessages := comment.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	commentCreated, err := comment.SaveComment(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formattedError,
		})
		return
	}
	if author, err := (&models.User{}).FindUserByID(server.DB, uid); err == nil {
		commentCreated.Author = *author
	}
	server.tagAspects(*commentCreated)

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": commentToDTO(commentCreated, 0, false),
	})
}

func (server *Server) UpdateComment(c *gin.Context) {
	comment, ok := server.lookupOwnedComment(c)
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	comment.Body = html.EscapeString(strings.TrimSpace(req.Body))
	errorMessages := comment.Validate("update")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	commentUpdated, err := comment.UpdateAComment(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formattedError,
		})
		return
	}
	server.tagAspects(*commentUpdated)

	likes, err := models.CountLikes(server.DB, []uint{commentUpdated.ID})
	if err != nil {
		likes = map[uint]int64{}
	}
	liked, err := models.LikedBy(server.DB, commentUpdated.UserID, []uint{commentUpdated.ID})
	if err != nil {
		liked = map[uint]bool{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentToDTO(commentUpdated, likes[commentUpdated.ID], liked[commentUpdated.ID]),
	})
}

func (server *Server) DeleteComment(c *gin.Context) {
	comment, ok := server.lookupOwnedComment(c)
	if !ok {
		return
	}

	if _, err := comment.DeleteAComment(server.DB); err != nil {
		logging.L().Errorw("delete comment failed", "comment_id", comment.PublicID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Comment deleted",
	})
}

// tagAspects analyses the comment in the background and stores the result
// unless the body changed in the meantime.
func (server *Server) tagAspects(comment models.Comment) {
	if server.Analyzer == nil {
		return
	}
	body := comment.Body
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.AnalyzeTimeout)
		defer cancel()

		aspects, err := server.Analyzer.Analyze(ctx, html.UnescapeString(body))
		if err != nil {
			metrics.SentimentFailures.Inc()
			logging.L().Warnw("aspect analysis failed", "comment_id", comment.PublicID, "error", err)
			return
		}
		stored, err := comment.SetAspects(server.DB, body, aspects)
		if err != nil {
			logging.L().Errorw("store aspects failed", "comment_id", comment.PublicID, "error", err)
			return
		}
		if !stored {
			logging.L().Debugw("comment changed before aspects arrived", "comment_id", comment.PublicID)
		}
	}()
}
