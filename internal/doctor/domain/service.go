package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type CreateDoctorRequest struct {
	Name      string
	Email     string
	City      string
	Specialty string
	SellerID  string
}

type ListDoctorRequest struct {
	PageToken string
	PageSize  int32
	Status    string
	City      string
	SellerID  string
}

type ListDoctorFilter struct {
	Status   string
	City     string
	SellerID string
}

type ListDoctorResponse struct {
	pagination.PageInfo
	Doctors []Doctor `json:"doctors"`
}

type GetDoctorRequest struct {
	ID string
}

type UpdateDoctorRequest struct {
	ID              string
	Status          string
	City            string
	Specialty       string
	NextPaymentDate *time.Time
}

type Service interface {
	Create(context.Context, CreateDoctorRequest) (Doctor, error)
	List(context.Context, ListDoctorRequest) (ListDoctorResponse, error)
	GetByID(context.Context, GetDoctorRequest) (Doctor, error)
	Update(context.Context, UpdateDoctorRequest) (Doctor, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidCity   = errors.New("invalid_city")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
