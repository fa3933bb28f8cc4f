package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type ListSellerPaymentRequest struct {
	PageToken string
	PageSize  int32
	SellerID  string
	Status    string
}

type ListSellerPaymentFilter struct {
	SellerID string
	Status   string
}

type ListSellerPaymentResponse struct {
	pagination.PageInfo
	Payments []SellerPayment `json:"payments"`
}

type GetSellerPaymentRequest struct {
	ID string
}

type MarkPaidRequest struct {
	ID            string
	ProofURL      string
	TransactionID string
}

type MarkReadRequest struct {
	ID string
}

type Service interface {
	List(context.Context, ListSellerPaymentRequest) (ListSellerPaymentResponse, error)
	Get(context.Context, GetSellerPaymentRequest) (SellerPayment, error)

	// MarkPaid settles a pending commission with the transfer proof.
	MarkPaid(context.Context, MarkPaidRequest) (SellerPayment, error)
	MarkRead(context.Context, MarkReadRequest) (SellerPayment, error)
}

var (
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
	ErrAlreadyPaid = errors.New("already_paid")
)
