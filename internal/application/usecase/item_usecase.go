package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// ItemUseCase catálogo de ítems y ajuste administrativo de stock.
// El stock se crea junto con el ítem y solo cambia vía StockTracker.
type ItemUseCase struct {
	txRunner inventory.TxRunner
	tracker  *inventory.StockTracker
	recorder *inventory.Recorder
	now      inventory.Clock
	log      zerolog.Logger
}

// NewItemUseCase construye el caso de uso. now nil usa time.Now.
func NewItemUseCase(txRunner inventory.TxRunner, now inventory.Clock, log zerolog.Logger) *ItemUseCase {
	if now == nil {
		now = time.Now
	}
	return &ItemUseCase{
		txRunner: txRunner,
		tracker:  inventory.NewStockTracker(now),
		recorder: inventory.NewRecorder(now),
		now:      now,
		log:      log,
	}
}

// Create crea el ítem y su fila de stock en 0 en la misma transacción.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || in.UnitPrice.IsNegative() || in.MinimumStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	item := &entity.Item{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         name,
		Description:  in.Description,
		Make:         in.Make,
		ModelNumber:  in.ModelNumber,
		UnitPrice:    in.UnitPrice,
		MinimumStock: in.MinimumStock,
		CreatedAt:    uc.now(),
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		existing, err := repos.Items.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateCode
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		return repos.Stock.Ensure(ctx, item.ID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("code", item.Code).Msg("ítem creado")
	return toItemResponse(item, 0), nil
}

// GetByID obtiene un ítem con su stock.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	var out *dto.ItemResponse
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		item, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		qty, err := currentQuantity(ctx, repos, id)
		if err != nil {
			return err
		}
		out = toItemResponse(item, qty)
		return nil
	})
	return out, err
}

// Update actualiza campo a campo; cambiar el código revalida unicidad.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinimumStock != nil && *in.MinimumStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.ItemResponse
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		item, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Code != nil {
			code := strings.TrimSpace(*in.Code)
			if code == "" {
				return domain.ErrInvalidInput
			}
			if code != item.Code {
				other, err := repos.Items.GetByCode(ctx, code)
				if err != nil {
					return err
				}
				if other != nil {
					return domain.ErrDuplicateCode
				}
				item.Code = code
			}
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.ErrInvalidInput
			}
			item.Name = name
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Make != nil {
			item.Make = *in.Make
		}
		if in.ModelNumber != nil {
			item.ModelNumber = *in.ModelNumber
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if in.MinimumStock != nil {
			item.MinimumStock = *in.MinimumStock
		}
		if err := repos.Items.Update(ctx, item); err != nil {
			return err
		}
		qty, err := currentQuantity(ctx, repos, id)
		if err != nil {
			return err
		}
		out = toItemResponse(item, qty)
		return nil
	})
	return out, err
}

// List lista ítems con su stock.
func (uc *ItemUseCase) List(ctx context.Context, limit, offset int) (*dto.ItemListResponse, error) {
	out := &dto.ItemListResponse{Page: dto.PageResponse{Limit: limit, Offset: offset}}
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		list, err := repos.Items.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		out.Items = make([]dto.ItemResponse, 0, len(list))
		for _, item := range list {
			qty, err := currentQuantity(ctx, repos, item.ID)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, *toItemResponse(item, qty))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetStock stock de un ítem.
func (uc *ItemUseCase) GetStock(ctx context.Context, itemID string) (*dto.StockResponse, error) {
	var out *dto.StockResponse
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		item, err := repos.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		s, err := repos.Stock.Get(ctx, itemID)
		if err != nil {
			return err
		}
		if s == nil {
			s = &entity.Stock{ItemID: itemID}
		}
		resp := dto.NewStockResponse(s, item)
		out = &resp
		return nil
	})
	return out, err
}

// ListStock filas de stock con código y nombre del ítem.
func (uc *ItemUseCase) ListStock(ctx context.Context, limit, offset int) ([]dto.StockResponse, error) {
	var out []dto.StockResponse
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		list, err := repos.Stock.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		out = make([]dto.StockResponse, 0, len(list))
		for _, s := range list {
			item, err := repos.Items.GetByID(ctx, s.ItemID)
			if err != nil {
				return err
			}
			out = append(out, dto.NewStockResponse(s, item))
		}
		return nil
	})
	return out, err
}

// UpdateStock fija la cantidad disponible. La diferencia pasa por StockTracker y queda
// registrada como ajuste en el libro; si no hay diferencia no se registra nada.
func (uc *ItemUseCase) UpdateStock(ctx context.Context, itemID string, quantity int) (*dto.StockResponse, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.StockResponse
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		item, err := repos.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := repos.Stock.Ensure(ctx, itemID); err != nil {
			return err
		}
		stock, err := repos.Stock.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrNotFound
		}
		delta := quantity - stock.CurrentQuantity
		switch {
		case delta > 0:
			if stock, err = uc.tracker.Increase(ctx, repos, itemID, delta); err != nil {
				return err
			}
			if _, err := uc.recorder.Record(ctx, repos, itemID, entity.ActionAdjustmentIn, delta, inventory.Reference{}); err != nil {
				return err
			}
		case delta < 0:
			if stock, err = uc.tracker.Decrease(ctx, repos, itemID, -delta); err != nil {
				return err
			}
			if _, err := uc.recorder.Record(ctx, repos, itemID, entity.ActionAdjustmentOut, -delta, inventory.Reference{}); err != nil {
				return err
			}
		}
		resp := dto.NewStockResponse(stock, item)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", itemID).Int("quantity", quantity).Msg("stock ajustado")
	return out, nil
}

// ListTransactions libro de movimientos, más recientes primero.
func (uc *ItemUseCase) ListTransactions(ctx context.Context, limit, offset int) ([]dto.TransactionResponse, error) {
	var out []dto.TransactionResponse
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		list, err := repos.Transactions.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		out = dto.NewTransactionListResponse(list)
		return nil
	})
	return out, err
}

// ItemHistory movimientos de un ítem.
func (uc *ItemUseCase) ItemHistory(ctx context.Context, itemID string) ([]dto.TransactionResponse, error) {
	var out []dto.TransactionResponse
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.Repos) error {
		item, err := repos.Items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		list, err := repos.Transactions.ListByItem(ctx, itemID)
		if err != nil {
			return err
		}
		out = dto.NewTransactionListResponse(list)
		return nil
	})
	return out, err
}

func currentQuantity(ctx context.Context, repos inventory.Repos, itemID string) (int, error) {
	s, err := repos.Stock.Get(ctx, itemID)
	if err != nil || s == nil {
		return 0, err
	}
	return s.CurrentQuantity, nil
}

func toItemResponse(item *entity.Item, qty int) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:              item.ID,
		Code:            item.Code,
		Name:            item.Name,
		Description:     item.Description,
		Make:            item.Make,
		ModelNumber:     item.ModelNumber,
		UnitPrice:       item.UnitPrice,
		MinimumStock:    item.MinimumStock,
		CurrentQuantity: qty,
		CreatedAt:       item.CreatedAt,
	}
}
