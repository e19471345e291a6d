package dto

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination holds the limit/offset query parameters shared by all list
// endpoints.
type Pagination struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Normalize applies default and ceiling values.
func (p *Pagination) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

type PaginationMeta struct {
	TotalItems int64 `json:"total_items"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

func Meta(total int64, p Pagination) PaginationMeta {
	return PaginationMeta{TotalItems: total, Limit: p.Limit, Offset: p.Offset}
}
