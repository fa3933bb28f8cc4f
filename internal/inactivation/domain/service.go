package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/medicita/pkg/db/pagination"
)

type ListLogRequest struct {
	PageToken string
	PageSize  int32
	DoctorID  string
	Origin    string
}

type ListLogFilter struct {
	DoctorID string
	Origin   string
}

type ListLogResponse struct {
	pagination.PageInfo
	Logs []InactivationLog `json:"logs"`
}

type Service interface {
	List(context.Context, ListLogRequest) (ListLogResponse, error)
}

var (
	ErrInvalidID = errors.New("invalid_id")
)
