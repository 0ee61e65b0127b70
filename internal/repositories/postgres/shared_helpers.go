package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/aithenode/booking-service/internal/repositories"
)

// translateError maps gorm errors onto the backend-neutral sentinels so
// service code never sees driver types. Relies on TranslateError being
// enabled on the gorm session; the string check covers drivers that
// surface the raw unique-violation message instead.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
		return repositories.ErrDuplicateKey
	}
	return err
}

// applyPaginationAndSort applies pagination and sorting with a column
// whitelist so sort input can never reach SQL unvalidated.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"id":         true,
		"created_at": true,
		"start_time": true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "id"
	}

	if sortOrder == "desc" || sortOrder == "DESC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
