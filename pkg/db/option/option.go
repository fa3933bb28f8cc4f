package option

import (
	"github.com/smallbiznis/medicita/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option applies a reusable query refinement to a gorm statement.
type Option interface {
	Apply(*gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination builds an Option enforcing cursor pagination. The
// statement fetches one extra row so callers can detect another page.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	size := o.page.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 250 {
		size = 250
	}

	if token := o.page.PageToken; token != "" {
		if cursor, err := pagination.DecodeCursor(token); err == nil && cursor != nil && cursor.CreatedAt != "" {
			stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	return stmt.Limit(size + 1)
}
