package repositories

import "errors"

// Sentinel errors shared by all backends. Backend implementations map their
// driver errors onto these so callers never depend on gorm or sql error
// types.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
