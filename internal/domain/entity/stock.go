package entity

import "time"

// Stock cantidad disponible de un ítem. Solo StockTracker modifica CurrentQuantity.
type Stock struct {
	ItemID          string
	CurrentQuantity int
	LastUpdated     time.Time
}
