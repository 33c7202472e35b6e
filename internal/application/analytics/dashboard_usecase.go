// Package analytics contiene los casos de uso de lectura agregada para el tablero.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

const dashboardRecent = 5 // movimientos y órdenes recientes en el tablero

// DashboardUseCase resume el estado del inventario.
//
// Todas las lecturas ocurren en una sola foto (RunReadOnly), de modo que los conteos
// y las listas recientes son consistentes entre sí.
type DashboardUseCase struct {
	txRunner inventory.TxRunner
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(txRunner inventory.TxRunner) *DashboardUseCase {
	return &DashboardUseCase{txRunner: txRunner}
}

// GetSummary construye el DashboardSummaryDTO:
//  1. filas de stock
//  2. ítems por pedir (todas las líneas abiertas, ordenadas o no)
//  3. requerimientos activos y total de órdenes de compra
//  4. últimos movimientos y últimas órdenes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	out := &dto.DashboardSummaryDTO{}
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		var err error
		if out.TotalStockItems, err = repos.Stock.Count(ctx); err != nil {
			return fmt.Errorf("dashboard: stock: %w", err)
		}
		shortages, err := inventory.ComputeShortagesInTx(ctx, repos, false)
		if err != nil {
			return fmt.Errorf("dashboard: faltantes: %w", err)
		}
		out.ItemsToBeOrdered = len(shortages)
		if out.ActiveProjects, err = repos.Requirements.CountByStatus(ctx, entity.RequirementActive); err != nil {
			return fmt.Errorf("dashboard: requerimientos: %w", err)
		}
		if out.TotalPurchaseOrders, err = repos.PurchaseOrders.Count(ctx); err != nil {
			return fmt.Errorf("dashboard: órdenes: %w", err)
		}
		txs, err := repos.Transactions.List(ctx, dashboardRecent, 0)
		if err != nil {
			return fmt.Errorf("dashboard: movimientos: %w", err)
		}
		out.RecentTransactions = dto.NewTransactionListResponse(txs)
		pos, err := repos.PurchaseOrders.List(ctx, dashboardRecent, 0)
		if err != nil {
			return fmt.Errorf("dashboard: órdenes recientes: %w", err)
		}
		out.RecentPurchaseOrders = dto.NewPurchaseOrderListResponse(pos)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
