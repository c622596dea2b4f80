package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
)

// ClassController handles scheduled live classes of a course
type ClassController struct {
	classService services.ClassService
	logger       zerolog.Logger
}

// NewClassController creates a new ClassController
func NewClassController(classService services.ClassService, logger zerolog.Logger) *ClassController {
	return &ClassController{
		classService: classService,
		logger:       logger.With().Str("controller", "class").Logger(),
	}
}

// ScheduleClass godoc
// @Summary Schedule a live class
// @Description Date and time are read in the academy timezone. Enrolled students are notified.
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.ScheduleClassRequest true "Class"
// @Success 201 {object} dto.APIResponse{data=dto.ScheduleClassResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid class"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate submission"
// @Router /courses/{id}/classes [post]
func (c *ClassController) ScheduleClass(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.ScheduleClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.classService.ScheduleClass(ctx.Request.Context(), courseID, middleware.CurrentUserEmail(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, resp)
}

// ToggleClassStatus godoc
// @Summary Advance a class status
// @Description scheduled becomes live, live becomes ended. Ended classes cannot change.
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param classId path string true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleClassResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid state change"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /courses/{id}/classes/{classId}/toggle [post]
func (c *ClassController) ToggleClassStatus(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	resp, err := c.classService.ToggleClassStatus(ctx.Request.Context(), courseID, ctx.Param("classId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, resp)
}

// DeleteScheduledClass godoc
// @Summary Delete a scheduled class
// @Tags classes
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param classId path string true "Class ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /courses/{id}/classes/{classId} [delete]
func (c *ClassController) DeleteScheduledClass(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	if err := c.classService.DeleteScheduledClass(ctx.Request.Context(), courseID, ctx.Param("classId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
