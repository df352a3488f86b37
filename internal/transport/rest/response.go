package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthfirst/internal/domain"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, messageResponseType{
		Status:  "success",
		Message: message,
	})
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	totalPages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "требуется авторизация")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "доступ запрещен"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	errorResponse(c, http.StatusForbidden, msg)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

// serviceErrorResponse переводит доменные ошибки в HTTP-статусы. Неопознанные
// ошибки считаются внутренними и не раскрывают деталей клиенту.
func serviceErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidTimeRange),
		errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrInvalidRecurrencePattern),
		errors.Is(err, domain.ErrInvalidTimezone):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSlotNotAvailable),
		errors.Is(err, domain.ErrSlotNotBooked),
		errors.Is(err, domain.ErrCannotDeleteBooked),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrPhoneTaken),
		errors.Is(err, domain.ErrLicenseTaken),
		errors.Is(err, domain.ErrSSNTaken):
		errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		errorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrAccountNotVerified):
		errorResponse(c, http.StatusForbidden, err.Error())
	default:
		errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}
