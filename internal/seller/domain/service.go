package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type CreateSellerRequest struct {
	Name           string
	Email          string
	Phone          string
	CommissionRate float64
}

type ListSellerRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListSellerFilter struct {
	Status string
}

type ListSellerResponse struct {
	pagination.PageInfo
	Sellers []Seller `json:"sellers"`
}

type GetSellerRequest struct {
	ID string
}

type UpdateSellerRequest struct {
	ID             string
	Phone          string
	Status         string
	CommissionRate *float64
}

type Service interface {
	Create(context.Context, CreateSellerRequest) (Seller, error)
	List(context.Context, ListSellerRequest) (ListSellerResponse, error)
	GetByID(context.Context, GetSellerRequest) (Seller, error)
	Update(context.Context, UpdateSellerRequest) (Seller, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidRate   = errors.New("invalid_rate")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
