package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

var _ repository.RequirementRepository = (*RequirementRepo)(nil)

const requirementColumns = `id, project_name, description, status, created_at, completed_at`

// RequirementRepo requerimientos de proyecto y sus líneas sobre PostgreSQL.
type RequirementRepo struct {
	q Querier
}

// NewRequirementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequirementRepository(q Querier) *RequirementRepo {
	return &RequirementRepo{q: q}
}

// Create inserta la cabecera y sus líneas en orden.
func (r *RequirementRepo) Create(ctx context.Context, req *entity.Requirement) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO requirements (`+requirementColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.ProjectName, req.Description, string(req.Status), req.CreatedAt, req.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert requirement: %w", err)
	}
	for i, l := range req.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO requirement_items
				(id, requirement_id, position, item_id, quantity_needed, quantity_issued, ordered)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, req.ID, i, l.ItemID, l.QuantityNeeded, l.QuantityIssued, l.Ordered,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert requirement line: %w", err)
		}
	}
	return nil
}

// GetByID carga el requerimiento con sus líneas.
func (r *RequirementRepo) GetByID(ctx context.Context, id string) (*entity.Requirement, error) {
	return r.load(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID bloqueando la cabecera.
func (r *RequirementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Requirement, error) {
	return r.load(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = $1 FOR UPDATE`, id)
}

func (r *RequirementRepo) load(ctx context.Context, query, id string) (*entity.Requirement, error) {
	req, err := scanRequirement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requirement: %w", err)
	}
	if req.Lines, err = r.lines(ctx, req.ID); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequirementRepo) lines(ctx context.Context, requirementID string) ([]entity.RequirementLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, requirement_id, item_id, quantity_needed, quantity_issued, ordered
		FROM requirement_items WHERE requirement_id = $1 ORDER BY position`, requirementID)
	if err != nil {
		return nil, fmt.Errorf("list requirement lines: %w", err)
	}
	defer rows.Close()
	lines := make([]entity.RequirementLine, 0)
	for rows.Next() {
		var l entity.RequirementLine
		if err := rows.Scan(&l.ID, &l.RequirementID, &l.ItemID, &l.QuantityNeeded, &l.QuantityIssued, &l.Ordered); err != nil {
			return nil, fmt.Errorf("scan requirement line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateProgress persiste estado, completed_at y quantity_issued por línea.
func (r *RequirementRepo) UpdateProgress(ctx context.Context, req *entity.Requirement) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE requirements SET status = $2, completed_at = $3 WHERE id = $1`,
		req.ID, string(req.Status), req.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, l := range req.Lines {
		_, err := r.q.Exec(ctx,
			`UPDATE requirement_items SET quantity_issued = $2 WHERE id = $1`,
			l.ID, l.QuantityIssued,
		)
		if err != nil {
			if isCheckViolation(err) {
				return domain.ErrInvalidLine
			}
			return fmt.Errorf("update requirement line: %w", err)
		}
	}
	return nil
}

// MarkOrdered marca ordered en las líneas con saldo del ítem que aún no lo estaban.
func (r *RequirementRepo) MarkOrdered(ctx context.Context, itemID string) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE requirement_items SET ordered = TRUE
		WHERE item_id = $1 AND ordered = FALSE AND quantity_issued < quantity_needed`, itemID)
	if err != nil {
		return 0, fmt.Errorf("mark requirement lines ordered: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListOpenLines líneas con saldo pendiente junto al proyecto que las pide.
func (r *RequirementRepo) ListOpenLines(ctx context.Context) ([]entity.OpenRequirementLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ri.requirement_id, rq.project_name, ri.item_id,
			ri.quantity_needed - ri.quantity_issued, ri.ordered
		FROM requirement_items ri
		JOIN requirements rq ON rq.id = ri.requirement_id
		WHERE ri.quantity_issued < ri.quantity_needed
		ORDER BY rq.created_at, rq.id, ri.position`)
	if err != nil {
		return nil, fmt.Errorf("list open requirement lines: %w", err)
	}
	defer rows.Close()
	list := make([]entity.OpenRequirementLine, 0)
	for rows.Next() {
		var l entity.OpenRequirementLine
		if err := rows.Scan(&l.RequirementID, &l.ProjectName, &l.ItemID, &l.Outstanding, &l.Ordered); err != nil {
			return nil, fmt.Errorf("scan open requirement line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// List requerimientos más recientes primero, con líneas.
func (r *RequirementRepo) List(ctx context.Context, limit, offset int) ([]*entity.Requirement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+requirementColumns+` FROM requirements ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		nullLimit(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	list := make([]*entity.Requirement, 0)
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		list = append(list, req)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range list {
		if req.Lines, err = r.lines(ctx, req.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CountByStatus cuenta requerimientos en un estado.
func (r *RequirementRepo) CountByStatus(ctx context.Context, status entity.RequirementStatus) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM requirements WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requirements: %w", err)
	}
	return n, nil
}

func scanRequirement(row pgx.Row) (*entity.Requirement, error) {
	var (
		req    entity.Requirement
		status string
	)
	if err := row.Scan(&req.ID, &req.ProjectName, &req.Description, &status, &req.CreatedAt, &req.CompletedAt); err != nil {
		return nil, err
	}
	req.Status = entity.RequirementStatus(status)
	if !req.Status.Valid() {
		return nil, fmt.Errorf("requirement %s: estado desconocido %q", req.ID, status)
	}
	return &req, nil
}
