package repository

import (
	"errors"
	"math"

	"github.com/fadilmartias/careerhub/internal/apperror"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// notFound turns driver "no rows" errors into a NotFound domain error and
// leaves everything else untouched.
func notFound(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound(what+" not found", err)
	}
	return err
}

// offset saturates at MaxInt32 so huge pages read past the end instead of
// wrapping negative.
func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	if pageSize > 0 && page-1 > math.MaxInt32/pageSize {
		return math.MaxInt32
	}
	return (page - 1) * pageSize
}
