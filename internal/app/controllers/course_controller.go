package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
	"github.com/yigit/academy/internal/pkg/helpers"
)

// CourseController handles courses, enrollments, weekly schedules and completion
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger.With().Str("controller", "course").Logger(),
	}
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	courses, pagination, err := c.courseService.ListCourses(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, dto.CourseListResponse{Courses: courses, Pagination: pagination})
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, course)
}

// GetCourse godoc
// @Summary Get course detail
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Removes the course from every user's enrollments, then deletes it with its comments and eBooks
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", id).Int64("by", ctx.GetInt64(middleware.ContextUserID)).Msg("Course deleted")
	ctx.Status(http.StatusNoContent)
}

// ListStudents godoc
// @Summary List enrolled students
// @Description Students of the course bucketed by enrollment status
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrolledStudentsResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/students [get]
func (c *CourseController) ListStudents(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	students, err := c.courseService.ListEnrolledStudents(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, students)
}

// RequestEnrollment godoc
// @Summary Request enrollment
// @Description Adds a pending enrollment for the current user. Repeating the request changes nothing.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/enroll [post]
func (c *CourseController) RequestEnrollment(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)
	resp, err := c.courseService.RequestEnrollment(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, resp)
}

// ApproveEnrollment godoc
// @Summary Approve an enrollment
// @Description Sets the enrollment of the user to success and returns the refreshed roster
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrolledStudentsResponse}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /courses/{id}/students/{userId}/approve [post]
func (c *CourseController) ApproveEnrollment(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}
	userID, valid := parseIDParam(ctx, "userId")
	if !valid {
		return
	}

	students, err := c.courseService.ApproveEnrollment(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, students)
}

// GetSchedule godoc
// @Summary Weekly schedule
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleSlot}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/schedule [get]
func (c *CourseController) GetSchedule(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	schedule, err := c.courseService.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, schedule)
}

// UpdateSchedule godoc
// @Summary Replace the weekly schedule
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateScheduleRequest true "Slots"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleSlot}
// @Failure 400 {object} dto.ErrorResponse "Invalid weekday or time"
// @Router /courses/{id}/schedule [put]
func (c *CourseController) UpdateSchedule(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.UpdateScheduleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	schedule, err := c.courseService.UpdateSchedule(ctx.Request.Context(), id, req.Slots)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, schedule)
}

// MarkCompleted godoc
// @Summary Mark a course completed
// @Description Completes the course now, or schedules completion at a future time
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.MarkCompletedRequest true "Completion"
// @Success 200 {object} dto.APIResponse{data=models.CourseEnd}
// @Failure 400 {object} dto.ErrorResponse "Invalid completion time"
// @Failure 409 {object} dto.ErrorResponse "Already completed"
// @Router /courses/{id}/complete [post]
func (c *CourseController) MarkCompleted(ctx *gin.Context) {
	id, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	var req dto.MarkCompletedRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	end, err := c.courseService.MarkCompleted(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, end)
}
