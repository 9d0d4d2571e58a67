package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	analytics "solar-insights/internal/analytics/domain"
)

// RunRepository persists the output of analytics runs so callers can keep a
// history without re-fetching provider data.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// StoredRun is one persisted run with its headline figures denormalized for
// cheap querying.
type StoredRun struct {
	AccountID       string
	RanAt           time.Time
	SolarKWh7d      float64
	GridKWh7d       float64
	SelfSufficiency float64
	DetectedPlan    string
	Result          *analytics.Result
}

// SaveRun inserts one run result.
func (r *RunRepository) SaveRun(ctx context.Context, accountID string, ranAt time.Time, res *analytics.Result, plan analytics.PlanDetection) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if res == nil {
		return errors.New("run repo: nil result")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO analytics_runs (
	account_id, ran_at, solar_kwh_7d, grid_kwh_7d, self_sufficiency,
	detected_plan, plan_confidence, result
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		accountID, ranAt,
		res.Last7Days.SolarConsumption, res.Last7Days.GridConsumption,
		res.SelfSufficiency.Score,
		string(plan.PlanType), plan.Confidence,
		payload,
	)
	return err
}

// FindLatest returns the most recent persisted run for an account, or nil
// when none exists.
func (r *RunRepository) FindLatest(ctx context.Context, accountID string) (*StoredRun, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT account_id, ran_at, solar_kwh_7d, grid_kwh_7d, self_sufficiency, detected_plan, result
FROM analytics_runs
WHERE account_id = $1
ORDER BY ran_at DESC
LIMIT 1`, accountID)

	var run StoredRun
	var payload []byte
	err := row.Scan(&run.AccountID, &run.RanAt, &run.SolarKWh7d, &run.GridKWh7d,
		&run.SelfSufficiency, &run.DetectedPlan, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res analytics.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, err
	}
	run.Result = &res
	return &run, nil
}
