package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academy/internal/app/models/dto"
	"github.com/yigit/academy/internal/app/services"
	"github.com/yigit/academy/internal/middleware"
)

// EBookController handles course eBooks
type EBookController struct {
	ebookService services.EBookService
}

// NewEBookController creates a new EBookController
func NewEBookController(ebookService services.EBookService) *EBookController {
	return &EBookController{ebookService: ebookService}
}

// ListEBooks godoc
// @Summary List eBooks of a course
// @Tags ebooks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.EBook}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/ebooks [get]
func (c *EBookController) ListEBooks(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	books, err := c.ebookService.ListEBooks(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ok(ctx, books)
}

// UploadEBook godoc
// @Summary Upload an eBook
// @Tags ebooks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param file formData file true "eBook file"
// @Success 201 {object} dto.APIResponse{data=models.EBook}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Router /courses/{id}/ebooks [post]
func (c *EBookController) UploadEBook(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	book, err := c.ebookService.UploadEBook(ctx.Request.Context(), courseID, file, middleware.CurrentUserEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, book)
}

// DeleteEBook godoc
// @Summary Delete an eBook
// @Tags ebooks
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param ebookId path string true "eBook ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "eBook not found"
// @Router /courses/{id}/ebooks/{ebookId} [delete]
func (c *EBookController) DeleteEBook(ctx *gin.Context) {
	courseID, valid := parseIDParam(ctx, "id")
	if !valid {
		return
	}

	if err := c.ebookService.DeleteEBook(ctx.Request.Context(), courseID, ctx.Param("ebookId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
