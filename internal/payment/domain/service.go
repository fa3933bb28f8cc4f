package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type CreatePaymentRequest struct {
	DoctorID  string
	Amount    float64
	Method    string
	Reference string
}

type ListPaymentRequest struct {
	PageToken string
	PageSize  int32
	DoctorID  string
	Status    string
}

type ListPaymentFilter struct {
	DoctorID string
	Status   string
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []DoctorPayment `json:"payments"`
}

type ReviewPaymentRequest struct {
	ID string
}

type Service interface {
	// Create records a pending payment report for review.
	Create(context.Context, CreatePaymentRequest) (DoctorPayment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)

	// Approve marks the payment Paid, advances the doctor's next payment
	// date by one clamped month and reactivates a suspended doctor.
	Approve(context.Context, ReviewPaymentRequest) (DoctorPayment, error)
	Reject(context.Context, ReviewPaymentRequest) (DoctorPayment, error)
}

var (
	ErrInvalidDoctor   = errors.New("invalid_doctor")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrAlreadyReviewed = errors.New("already_reviewed")
)
