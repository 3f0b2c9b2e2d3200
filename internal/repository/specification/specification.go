package specification

import "gorm.io/gorm"

// Specification applies a query predicate to a gorm chain.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
