package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// IsDuplicate reports whether err is a unique-constraint violation. The
// service layer pre-checks every uniqueness rule, but two racing requests can
// both pass the pre-check; the constraint is what actually holds the
// invariant, so its violation has to read as a duplicate too. String matching
// covers drivers that predate gorm's error translation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
