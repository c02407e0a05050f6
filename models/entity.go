package models

// Entity is any record with a unique numeric identifier.
type Entity interface {
	GetID() uint
}

// Record is the pointer side of an entity that the stores can stamp with an
// id and owner and validate before writing.
type Record[T any] interface {
	*T
	Entity
	SetID(id uint)
	SetOwner(userID uint)
	Validate() error
}

// Nutrients maps an Edamam nutrient tag (ENERC_KCAL, PROCNT, ...) to its amount.
type Nutrients map[string]float64
