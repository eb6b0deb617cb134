package request

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// Offset counts from the first page; pages below one read as the first.
func (p PaginatedRequest) Offset() int {
	return (max(p.Page, 1) - 1) * p.Limit()
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return defaultPerPage
	case p.PerPage > maxPerPage:
		return maxPerPage
	}
	return p.PerPage
}
