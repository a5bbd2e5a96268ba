package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	maxLimit = 100
	// maxPage keeps (page-1)*limit far from int overflow.
	maxPage = 1_000_000
)

type Params struct {
	Page  int
	Limit int
}

// FromQuery reads ?page= and ?limit=, falling back to page 1 and defaultLimit.
// Non-numeric or non-positive values fall back too; page and limit are capped.
func FromQuery(c *gin.Context, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Result is the paginated list envelope.
type Result[T any] struct {
	Count   int64 `json:"count"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Results []T   `json:"results"`
}

func NewResult[T any](items []T, count int64, p Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{Count: count, Page: p.Page, Limit: p.Limit, Results: items}
}
