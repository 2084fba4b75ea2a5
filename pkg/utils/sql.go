package utils

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBOption func(*gorm.DB) *gorm.DB

func ApplyOptions(db *gorm.DB, opts ...DBOption) *gorm.DB {
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

// WithTx substitutes an open transaction for the repository's base handle.
func WithTx(tx *gorm.DB) DBOption {
	return func(_ *gorm.DB) *gorm.DB {
		return tx
	}
}

func WithPreload(column string, args ...interface{}) DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(column, args...)
	}
}

// WithLock takes a FOR UPDATE row lock so concurrent writers serialize on the
// read instead of clobbering each other at the write.
func WithLock() DBOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
