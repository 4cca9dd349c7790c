package response

import (
	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

type ApiEnvelope struct {
	Ok      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Data    any             `json:"data,omitempty"`
	Meta    *PaginationMeta `json:"meta,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:      true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes the failure envelope. The dashboard reads only the "error" string.
func Error(c *gin.Context, status int, errorCode string, message string) {
	c.JSON(status, ApiEnvelope{
		Ok:    false,
		Error: message,
		Code:  errorCode,
	})
}

// AbortWithError is Error for middleware.
func AbortWithError(c *gin.Context, status int, errorCode string, message string) {
	Error(c, status, errorCode, message)
	c.Abort()
}

// Paginate slices an in-memory result using page/page_size query params.
func Paginate[T any](c *gin.Context, items []T) ([]T, PaginationMeta) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 50)

	total := int64(len(items))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], NewPaginationMeta(total, page, pageSize)
}
