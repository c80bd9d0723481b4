package httpresp

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
)

const PageParam = "page"

type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Pagination is a 1-based page request.
type Pagination struct {
	Page int
	Size int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

func (p Pagination) Limit() int {
	return p.Size
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// ParsePagination reads ?page=N. A missing value means page 1.
func ParsePagination(c *gin.Context, size int) (Pagination, error) {
	raw := c.Query(PageParam)
	if raw == "" {
		return Pagination{Page: 1, Size: size}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Pagination{}, httperr.ErrBusiness("invalid_page")
	}
	// The offset must fit in an int.
	if size > 0 && n-1 > math.MaxInt/size {
		return Pagination{}, httperr.ErrBusiness("invalid_page")
	}
	return Pagination{Page: n, Size: size}, nil
}

// Paginated writes a page envelope, or 404 invalid_page when the requested
// page lies past the end. Page 1 of an empty result is always valid.
func Paginated[T any](c *gin.Context, p Pagination, total int64, results []T) {
	if p.Page > 1 && int64(p.Offset()) >= total {
		httperr.NotFound(c, "invalid_page", "Invalid page.")
		return
	}

	if results == nil {
		results = []T{}
	}

	resp := Page[T]{
		Count:   total,
		Results: results,
	}

	if int64(p.Offset()+len(results)) < total {
		next := pageURL(c, p.Page+1)
		resp.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		resp.Previous = &prev
	}

	c.JSON(http.StatusOK, resp)
}

// InvalidPage writes the 404 used for malformed page parameters.
func InvalidPage(c *gin.Context) {
	httperr.NotFound(c, "invalid_page", "Invalid page.")
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
