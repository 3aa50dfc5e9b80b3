package response

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

// NewPagination describes page (1-indexed) of a listing with limit items per page, where
// returned items came back out of total matches.
func NewPagination(page, limit, returned int, total int64) Pagination {
	skip := int64(page-1) * int64(limit)
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      skip+int64(returned) < total,
		HasPrev:      page > 1,
	}
}
