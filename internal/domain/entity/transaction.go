package entity

import "time"

// TransactionAction tipo de movimiento registrado en el libro.
type TransactionAction string

const (
	ActionPurchase      TransactionAction = "Purchase"       // entrada por recepción de compra
	ActionIssue         TransactionAction = "Issue"          // salida hacia un proyecto
	ActionAdjustmentIn  TransactionAction = "Adjustment In"  // ajuste administrativo positivo
	ActionAdjustmentOut TransactionAction = "Adjustment Out" // ajuste administrativo negativo
)

// Valid indica si a es una de las acciones conocidas.
func (a TransactionAction) Valid() bool {
	return a.Sign() != 0
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (a TransactionAction) Sign() int {
	switch a {
	case ActionPurchase, ActionAdjustmentIn:
		return 1
	case ActionIssue, ActionAdjustmentOut:
		return -1
	}
	return 0
}

// Transaction registro inmutable del libro de movimientos. Quantity es siempre > 0;
// el sentido lo da Action.
type Transaction struct {
	ID              string
	ItemID          string
	Action          TransactionAction
	Quantity        int
	PurchaseOrderID *string
	RequirementID   *string
	CreatedAt       time.Time
}

// SignedQuantity cantidad con signo según la acción.
func (t Transaction) SignedQuantity() int {
	return t.Action.Sign() * t.Quantity
}
