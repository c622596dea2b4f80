package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
)

// CommentController handles comment threads under recorded classes
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// ListComments godoc
// @Summary List comments of a video
// @Description Comments with like and dislike counts and the caller's own reaction
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param videoId path string true "Video ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse}
// @Router /courses/{id}/videos/{videoId}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	comments, err := c.commentService.ListComments(ctx.Request.Context(), courseID, ctx.Param("videoId"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, comments)
}

// AddComment godoc
// @Summary Comment on a video
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param videoId path string true "Video ID"
// @Param request body dto.AddCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid comment"
// @Router /courses/{id}/videos/{videoId}/comments [post]
func (c *CommentController) AddComment(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.AddCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	comment, err := c.commentService.AddComment(ctx.Request.Context(), courseID, ctx.Param("videoId"), userID, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Authors may delete their own comments, admins any comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param videoId path string true "Video ID"
// @Param commentId path string true "Comment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /courses/{id}/videos/{videoId}/comments/{commentId} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	err := c.commentService.DeleteComment(ctx.Request.Context(), courseID, ctx.Param("videoId"), ctx.Param("commentId"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddReply godoc
// @Summary Reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param videoId path string true "Video ID"
// @Param commentId path string true "Comment ID"
// @Param request body dto.AddReplyRequest true "Reply"
// @Success 201 {object} dto.APIResponse{data=models.Reply}
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /courses/{id}/videos/{videoId}/comments/{commentId}/replies [post]
func (c *CommentController) AddReply(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.AddReplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	reply, err := c.commentService.AddReply(ctx.Request.Context(), courseID, ctx.Param("videoId"), ctx.Param("commentId"), userID, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, reply)
}

// ToggleLike godoc
// @Summary Like or dislike a comment
// @Description Sending the current reaction again removes it
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param videoId path string true "Video ID"
// @Param commentId path string true "Comment ID"
// @Param request body dto.ToggleLikeRequest true "Reaction"
// @Success 200 {object} dto.APIResponse{data=dto.LikeStateResponse}
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /courses/{id}/videos/{videoId}/comments/{commentId}/like [post]
func (c *CommentController) ToggleLike(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.ToggleLikeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	state, err := c.commentService.ToggleLike(ctx.Request.Context(), courseID, ctx.Param("videoId"), ctx.Param("commentId"), userID, *req.IsLike)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, state)
}
