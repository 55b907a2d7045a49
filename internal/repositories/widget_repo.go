package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wexford-labs/widgetry/internal/database"
	"github.com/wexford-labs/widgetry/internal/models"
)

type WidgetRepository struct {
	pool *pgxpool.Pool
}

func NewWidgetRepository(db *database.DB) *WidgetRepository {
	return &WidgetRepository{pool: db.Pool}
}

const widgetColumns = `id, name, description, who, what, "when", why, "where", wishes, user_id, created_at, updated_at`

func scanWidgetRow(scanner rowScanner) (*models.Widget, error) {
	var widget models.Widget
	err := scanner.Scan(
		&widget.ID, &widget.Name, &widget.Description,
		&widget.Who, &widget.What, &widget.When, &widget.Why, &widget.Where,
		&widget.Wishes, &widget.UserID,
		&widget.CreatedAt, &widget.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &widget, nil
}

func (r *WidgetRepository) GetByID(ctx context.Context, id string) (*models.Widget, error) {
	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE id = $1`
	return scanWidgetRow(r.pool.QueryRow(ctx, query, id))
}

// GetByOwner returns the owner's widget, if any. Non-admin accounts hold
// at most one widget so a single row lookup suffices.
func (r *WidgetRepository) GetByOwner(ctx context.Context, userID string) (*models.Widget, error) {
	query := `SELECT ` + widgetColumns + ` FROM widgets WHERE user_id = $1 LIMIT 1`
	return scanWidgetRow(r.pool.QueryRow(ctx, query, userID))
}

func (r *WidgetRepository) Create(ctx context.Context, widget *models.Widget) (*models.Widget, error) {
	widget.ID = uuid.New().String()
	now := time.Now()
	widget.CreatedAt = now
	widget.UpdatedAt = now

	query := `
		INSERT INTO widgets (id, name, description, who, what, "when", why, "where", wishes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + widgetColumns

	return scanWidgetRow(r.pool.QueryRow(ctx, query,
		widget.ID, widget.Name, widget.Description,
		widget.Who, widget.What, widget.When, widget.Why, widget.Where,
		widget.Wishes, widget.UserID, widget.CreatedAt, widget.UpdatedAt,
	))
}

func (r *WidgetRepository) Update(ctx context.Context, id string, widget *models.Widget) (*models.Widget, error) {
	query := `
		UPDATE widgets SET name = $1, description = $2, who = $3, what = $4,
			"when" = $5, why = $6, "where" = $7, wishes = $8, updated_at = now()
		WHERE id = $9
		RETURNING ` + widgetColumns

	return scanWidgetRow(r.pool.QueryRow(ctx, query,
		widget.Name, widget.Description,
		widget.Who, widget.What, widget.When, widget.Why, widget.Where,
		widget.Wishes, id,
	))
}

func (r *WidgetRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM widgets WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
