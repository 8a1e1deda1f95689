package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/obetrack/outcometrics/internal/app/models/dto"
	"github.com/obetrack/outcometrics/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to API responses. Controllers call this
// for every error a service returns.
func HandleAPIError(c *gin.Context, err error) {
	detail := func(code dto.ErrorCode, fallback string) *dto.ErrorDetail {
		message := fallback
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		return dto.NewErrorDetail(code, message)
	}

	switch {
	case errors.Is(err, apperrors.ErrUnreadableSheet):
		c.JSON(400, dto.APIResponse{
			Error: detail(dto.ErrorCodeUnreadableSheet, "Could not read the uploaded file"),
		})
	case errors.Is(err, apperrors.ErrNoStudentNumberColumn):
		c.JSON(400, dto.APIResponse{
			Error: detail(dto.ErrorCodeNoStudentNumberColumn, "No student-number column found in the sheet headers"),
		})
	case errors.Is(err, apperrors.ErrTemplateNotFound):
		c.JSON(404, dto.APIResponse{
			Error: detail(dto.ErrorCodeResourceNotFound, "Grade sheet template not found"),
		})
	case errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrEnrollmentNotFound),
		errors.Is(err, apperrors.ErrProgramOutcomeNotFound),
		errors.Is(err, apperrors.ErrOutcomeNotFound),
		errors.Is(err, apperrors.ErrComponentNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: detail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: detail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: detail(dto.ErrorCodeValidationFailed, "Validation failed"),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
