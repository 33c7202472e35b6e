package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// RequirementLineInput línea solicitada al crear un requerimiento.
type RequirementLineInput struct {
	ItemID         string
	QuantityNeeded int
}

// CreateRequirementInput entrada para Create.
type CreateRequirementInput struct {
	ProjectName string
	Description string
	Lines       []RequirementLineInput
}

// RequirementUseCase creación y entrega de requerimientos de proyecto.
type RequirementUseCase struct {
	txRunner TxRunner
	tracker  *StockTracker
	recorder *Recorder
	now      Clock
	log      zerolog.Logger
}

// NewRequirementUseCase construye el caso de uso. now nil usa time.Now.
func NewRequirementUseCase(txRunner TxRunner, now Clock, log zerolog.Logger) *RequirementUseCase {
	if now == nil {
		now = time.Now
	}
	return &RequirementUseCase{
		txRunner: txRunner,
		tracker:  NewStockTracker(now),
		recorder: NewRecorder(now),
		now:      now,
		log:      log,
	}
}

// Create crea el requerimiento en estado Active con todas sus líneas.
func (uc *RequirementUseCase) Create(ctx context.Context, in CreateRequirementInput) (*entity.Requirement, error) {
	if strings.TrimSpace(in.ProjectName) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidLine
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.QuantityNeeded <= 0 || l.QuantityNeeded > maxStockQuantity {
			return nil, domain.ErrInvalidLine
		}
	}
	req := &entity.Requirement{
		ID:          uuid.New().String(),
		ProjectName: strings.TrimSpace(in.ProjectName),
		Description: in.Description,
		Status:      entity.RequirementActive,
		CreatedAt:   uc.now(),
		Lines:       make([]entity.RequirementLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		req.Lines = append(req.Lines, entity.RequirementLine{
			ID:             uuid.New().String(),
			RequirementID:  req.ID,
			ItemID:         l.ItemID,
			QuantityNeeded: l.QuantityNeeded,
		})
	}

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		for _, id := range distinctRequirementItems(req.Lines) {
			item, err := repos.Items.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
		}
		return repos.Requirements.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("requirement_id", req.ID).Str("project", req.ProjectName).Int("lines", len(req.Lines)).Msg("requerimiento creado")
	return req, nil
}

// IssueAll entrega el saldo de todas las líneas, todo o nada: si el stock de algún ítem
// no cubre su saldo total el requerimiento queda intacto y se devuelve
// domain.ErrInsufficientStock.
func (uc *RequirementUseCase) IssueAll(ctx context.Context, requirementID string) (*entity.Requirement, error) {
	var out *entity.Requirement
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		req, err := uc.lockRequirement(ctx, repos, requirementID)
		if err != nil {
			return err
		}
		if req.Status == entity.RequirementCompleted {
			return domain.ErrAlreadyCompleted
		}

		// Saldo por ítem: varias líneas del mismo ítem compiten por el mismo stock.
		needed := make(map[string]int)
		for _, l := range req.Lines {
			if n := l.Outstanding(); n > 0 {
				needed[l.ItemID] += n
			}
		}
		itemIDs := make([]string, 0, len(needed))
		for id := range needed {
			itemIDs = append(itemIDs, id)
		}
		sort.Strings(itemIDs)

		available, err := lockStock(ctx, repos, itemIDs)
		if err != nil {
			return err
		}
		for _, id := range itemIDs {
			if available[id] < needed[id] {
				return domain.ErrInsufficientStock
			}
		}

		ref := Reference{RequirementID: req.ID}
		for i := range req.Lines {
			l := &req.Lines[i]
			n := l.Outstanding()
			if n <= 0 {
				continue
			}
			if _, err := uc.tracker.Decrease(ctx, repos, l.ItemID, n); err != nil {
				return err
			}
			l.QuantityIssued = l.QuantityNeeded
			if _, err := uc.recorder.Record(ctx, repos, l.ItemID, entity.ActionIssue, n, ref); err != nil {
				return err
			}
		}
		uc.completeIfIssued(req)
		if err := repos.Requirements.UpdateProgress(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("requirement_id", requirementID).Msg("entrega total rechazada")
		return nil, err
	}
	uc.log.Info().Str("requirement_id", out.ID).Str("status", string(out.Status)).Msg("requerimiento entregado")
	return out, nil
}

// IssueLine entrega el saldo de una sola línea (la primera del ítem con saldo) sin mirar
// las demás. Luego reevalúa si el requerimiento quedó completo.
func (uc *RequirementUseCase) IssueLine(ctx context.Context, requirementID, itemID string) (*entity.Requirement, error) {
	var out *entity.Requirement
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		req, err := uc.lockRequirement(ctx, repos, requirementID)
		if err != nil {
			return err
		}
		idx, found := -1, false
		for i, l := range req.Lines {
			if l.ItemID != itemID {
				continue
			}
			found = true
			if l.Outstanding() > 0 {
				idx = i
				break
			}
		}
		if !found {
			return domain.ErrNotFound
		}
		if idx < 0 {
			return domain.ErrAlreadyIssued
		}
		l := &req.Lines[idx]
		n := l.Outstanding()
		if _, err := uc.tracker.Decrease(ctx, repos, l.ItemID, n); err != nil {
			return err
		}
		l.QuantityIssued = l.QuantityNeeded
		if _, err := uc.recorder.Record(ctx, repos, l.ItemID, entity.ActionIssue, n, Reference{RequirementID: req.ID}); err != nil {
			return err
		}
		uc.completeIfIssued(req)
		if err := repos.Requirements.UpdateProgress(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("requirement_id", requirementID).Str("item_id", itemID).Msg("entrega de línea rechazada")
		return nil, err
	}
	uc.log.Info().Str("requirement_id", out.ID).Str("item_id", itemID).Str("status", string(out.Status)).Msg("línea entregada")
	return out, nil
}

// UpdateStatus cambio administrativo de estado. No toca stock ni líneas: es una vía de
// escape sin validaciones y no debe usarse para saltar la entrega.
// Completed sella completed_at; Active lo limpia.
func (uc *RequirementUseCase) UpdateStatus(ctx context.Context, requirementID string, status entity.RequirementStatus) (*entity.Requirement, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Requirement
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		req, err := uc.lockRequirement(ctx, repos, requirementID)
		if err != nil {
			return err
		}
		req.Status = status
		switch status {
		case entity.RequirementCompleted:
			t := uc.now()
			req.CompletedAt = &t
		case entity.RequirementActive:
			req.CompletedAt = nil
		}
		if err := repos.Requirements.UpdateProgress(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Warn().Str("requirement_id", out.ID).Str("status", string(status)).Msg("estado de requerimiento forzado")
	return out, nil
}

// Get obtiene un requerimiento con sus líneas.
func (uc *RequirementUseCase) Get(ctx context.Context, requirementID string) (*entity.Requirement, error) {
	var out *entity.Requirement
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		req, err := repos.Requirements.GetByID(ctx, requirementID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		out = req
		return nil
	})
	return out, err
}

// List requerimientos más recientes primero.
func (uc *RequirementUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Requirement, error) {
	var out []*entity.Requirement
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		var err error
		out, err = repos.Requirements.List(ctx, limit, offset)
		return err
	})
	return out, err
}

func (uc *RequirementUseCase) lockRequirement(ctx context.Context, repos Repos, id string) (*entity.Requirement, error) {
	req, err := repos.Requirements.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (uc *RequirementUseCase) completeIfIssued(req *entity.Requirement) {
	if req.Status == entity.RequirementCompleted || !req.AllIssued() {
		return
	}
	t := uc.now()
	req.Status = entity.RequirementCompleted
	req.CompletedAt = &t
}

func distinctRequirementItems(lines []entity.RequirementLine) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		out = append(out, l.ItemID)
	}
	return out
}
