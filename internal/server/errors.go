package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/medicita/internal/billingcycle"
	doctordomain "github.com/smallbiznis/medicita/internal/doctor/domain"
	inactivationdomain "github.com/smallbiznis/medicita/internal/inactivation/domain"
	paymentdomain "github.com/smallbiznis/medicita/internal/payment/domain"
	sellerdomain "github.com/smallbiznis/medicita/internal/seller/domain"
	sellerpaymentdomain "github.com/smallbiznis/medicita/internal/sellerpayment/domain"
	settingsdomain "github.com/smallbiznis/medicita/internal/settings/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, paymentdomain.ErrAlreadyReviewed),
		errors.Is(err, sellerpaymentdomain.ErrAlreadyPaid):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isSettingsValidationError(err),
		isSellerValidationError(err),
		isDoctorValidationError(err),
		isDoctorPaymentValidationError(err),
		isSellerPaymentValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, settingsdomain.ErrSettingsNotFound),
		errors.Is(err, sellerdomain.ErrNotFound),
		errors.Is(err, doctordomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, sellerpaymentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isSettingsValidationError(err error) bool {
	switch {
	case errors.Is(err, billingcycle.ErrInvalidCycleEndDay),
		errors.Is(err, settingsdomain.ErrInvalidCommissionRate),
		errors.Is(err, settingsdomain.ErrInvalidTimezone),
		errors.Is(err, settingsdomain.ErrInvalidCity),
		errors.Is(err, settingsdomain.ErrInvalidFee):
		return true
	default:
		return false
	}
}

func isSellerValidationError(err error) bool {
	switch err {
	case sellerdomain.ErrInvalidName,
		sellerdomain.ErrInvalidEmail,
		sellerdomain.ErrInvalidStatus,
		sellerdomain.ErrInvalidRate,
		sellerdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isDoctorValidationError(err error) bool {
	switch err {
	case doctordomain.ErrInvalidName,
		doctordomain.ErrInvalidEmail,
		doctordomain.ErrInvalidCity,
		doctordomain.ErrInvalidStatus,
		doctordomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isDoctorPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidDoctor,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func isSellerPaymentValidationError(err error) bool {
	switch err {
	case sellerpaymentdomain.ErrInvalidID,
		inactivationdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
