package activity

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/metrics"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// ActivityRepository defines the interface for activity taxonomy data access
type ActivityRepository interface {
	Create(ctx context.Context, req models.CreateActivityRequest) (*models.Activity, error)
	GetByID(ctx context.Context, id int64) (*models.Activity, error)
	GetByName(ctx context.Context, name string) (*models.Activity, error)
}

// Repository implements ActivityRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new activity repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// queryer is satisfied by both database.DB and database.Tx
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Create validates the nesting depth inside a transaction and inserts the new
// activity. A failed depth check leaves no row behind.
func (r *Repository) Create(ctx context.Context, req models.CreateActivityRequest) (*models.Activity, error) {
	ctx, span := tracing.StartSpan(ctx, "ActivityRepository.Create")
	defer span.End()

	ctxTx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	// rollback with the pre-GetTx ctx: if this call opened the transaction it
	// must release it, while a transaction inherited from the caller is left
	// for the caller to close
	defer tx.Rollback(ctx)

	if req.ParentID != nil {
		err = checkActivityDepth(ctxTx, *req.ParentID, func(ctx context.Context, id int64) (*models.Activity, error) {
			return getByID(ctx, tx, id)
		})
		if err != nil {
			r.logger.WithContext(ctxTx).WithError(err).WithFields(map[string]any{
				"name":      req.Name,
				"parent_id": *req.ParentID,
			}).Warn("rejected activity insert")
			metrics.ActivitiesCreatedTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(activitiesTable)
	ib.Cols("name", "parent_id")
	ib.Values(req.Name, req.ParentID)
	ib.Returning("id", "created_at")

	query, args := ib.Build()

	activity := &models.Activity{Name: req.Name, ParentID: req.ParentID}
	err = tx.QueryRowxContext(ctxTx, query, args...).Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctxTx).WithError(err).Error("Failed to create activity")
		metrics.ActivitiesCreatedTotal.WithLabelValues("error").Inc()
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create activity")
	}

	if err := tx.Commit(ctxTx); err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit activity")
	}

	r.logger.WithContext(ctxTx).WithFields(map[string]any{
		"id":   activity.ID,
		"name": activity.Name,
	}).Info("created activity")
	metrics.ActivitiesCreatedTotal.WithLabelValues("created").Inc()

	return activity, nil
}

// GetByID retrieves an activity by id. Returns nil when no activity exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	ctx, span := tracing.StartSpan(ctx, "ActivityRepository.GetByID")
	defer span.End()

	return getByID(ctx, r.db, id)
}

// GetByName retrieves the first activity with the given name. Returns nil when
// no activity matches.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.Activity, error) {
	ctx, span := tracing.StartSpan(ctx, "ActivityRepository.GetByName")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("id", "name", "parent_id", "created_at")
	sb.From(activitiesTable)
	sb.Where(sb.Equal("name", name))
	sb.OrderBy("id").Asc()
	sb.Limit(1)

	query, args := sb.Build()

	var row ActivityRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get activity by name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get activity")
	}

	return ToActivity(&row), nil
}

func getByID(ctx context.Context, q queryer, id int64) (*models.Activity, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id", "name", "parent_id", "created_at")
	sb.From(activitiesTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var row ActivityRow
	err := q.GetContext(ctx, &row, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get activity")
	}

	return ToActivity(&row), nil
}
