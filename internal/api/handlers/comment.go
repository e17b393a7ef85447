package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/api/middleware"
)

func (h *ReviewHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	text := c.PostForm("text")
	_, err := h.commentService.AddComment(middleware.CurrentIdentity(c), id, text)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			h.showReview(c, http.StatusUnprocessableEntity, id, gin.H{
				"CommentText":  text,
				"CommentError": fields["text"],
			})
			return
		}
		handleError(c, err)
		return
	}

	middleware.AddFlash(c, "Comment added.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/review/%d", id))
}

func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviewID, err := h.commentService.DeleteComment(middleware.CurrentIdentity(c), id)
	if err != nil {
		handleError(c, err)
		return
	}

	middleware.AddFlash(c, "Comment deleted.", middleware.FlashSuccess)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/review/%d", reviewID))
}
