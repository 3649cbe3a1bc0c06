package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// Offset is the row offset of the first item on the page.
func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// FromContext reads page and size (or page_size) from the query string, clamping out-of-range values.
func FromContext(c *gin.Context) Query {
	page := parseIntOr(c.Query("page"), DefaultPage)
	rawSize := c.Query("size")
	if rawSize == "" {
		rawSize = c.Query("page_size")
	}
	size := parseIntOr(rawSize, DefaultSize)

	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Query{Page: page, Size: size}
}

// Paginate counts the rows matched by db, then loads one page of them into dest.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := db.Session(&gorm.Session{}).Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	return Meta(total, q), nil
}

// Meta builds pagination metadata for total rows.
func Meta(total int64, q Query) response.Pagination {
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
