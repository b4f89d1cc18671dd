package domain

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// PaginationParams pages through a customer's inbox, newest first.
type PaginationParams struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"page_size" query:"page_size"`
}

func DefaultPagination() PaginationParams {
	return PaginationParams{Page: 1, PageSize: defaultPageSize}
}

// Normalize clamps out-of-range values instead of rejecting them.
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = defaultPageSize
	case p.PageSize > maxPageSize:
		p.PageSize = maxPageSize
	}
}

func (p PaginationParams) Limit() int {
	return p.PageSize
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPaginatedResponse[T any](data []T, params PaginationParams, totalItems int64) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	var totalPages int
	if params.PageSize > 0 {
		totalPages = int((totalItems + int64(params.PageSize) - 1) / int64(params.PageSize))
	}

	return PaginatedResponse[T]{
		Data:       data,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
