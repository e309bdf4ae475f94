package model

// Course mirrors the catalog's view of a purchasable course. The catalog
// service owns this data; the core only reads it at checkout time.
type Course struct {
	ID           string
	Name         string
	PriceCents   int64
	ValidityDays *int
	Active       bool
}
