package v1

import (
	"strconv"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// bindJSON binds the request body into dst, recording a validation error on failure
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.Validation("Validation failed", validation.FormatValidationErrors(err)))
		return false
	}
	return true
}

func pageFromQuery(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return domain.Page{Page: page, PageSize: pageSize}
}

// boolQuery reads a boolean flag; anything unparsable counts as false
func boolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

func floatQuery(c *gin.Context, key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		c.Error(apperror.Validation("Invalid query parameter", []string{key + ": must be a non-negative number"}))
		return 0, false
	}
	return v, true
}
