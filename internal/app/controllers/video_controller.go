package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
)

// VideoController handles recorded classes of a course
type VideoController struct {
	videoService services.VideoService
}

// NewVideoController creates a new VideoController
func NewVideoController(videoService services.VideoService) *VideoController {
	return &VideoController{videoService: videoService}
}

// ListVideos godoc
// @Summary List recorded classes
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Video}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/videos [get]
func (c *VideoController) ListVideos(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	videos, err := c.videoService.ListVideos(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, videos)
}

// AddVideo godoc
// @Summary Add a recorded class
// @Tags videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.AddVideoRequest true "Video"
// @Success 201 {object} dto.APIResponse{data=models.Video}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /courses/{id}/videos [post]
func (c *VideoController) AddVideo(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.AddVideoRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	video, err := c.videoService.AddVideo(ctx.Request.Context(), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, video)
}

// DeleteVideo godoc
// @Summary Delete a recorded class and its comments
// @Tags videos
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param videoId path string true "Video ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Video not found"
// @Router /courses/{id}/videos/{videoId} [delete]
func (c *VideoController) DeleteVideo(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	if err := c.videoService.DeleteVideo(ctx.Request.Context(), courseID, ctx.Param("videoId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
