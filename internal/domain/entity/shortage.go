package entity

// ShortageRequirement requerimiento que aporta demanda pendiente a un faltante.
type ShortageRequirement struct {
	RequirementID string
	ProjectName   string
	Outstanding   int
}

// Shortage faltante de un ítem: demanda pendiente mayor que el stock.
type Shortage struct {
	Item          Item
	TotalRequired int
	CurrentStock  int
	Shortage      int
	Requirements  []ShortageRequirement
}
