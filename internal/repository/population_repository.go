package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hiremate/internal/domain"
	"hiremate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxPopulationRepository implements domain.PopulationRepository using sqlx.
type sqlxPopulationRepository struct {
	db *sqlx.DB
}

// NewSQLXPopulationRepository creates a new instance of sqlxPopulationRepository.
func NewSQLXPopulationRepository(db *sqlx.DB) domain.PopulationRepository {
	return &sqlxPopulationRepository{db: db}
}

func toDomainPopulationStats(m *models.PopulationStats) *domain.PopulationStats {
	if m == nil {
		return nil
	}
	return &domain.PopulationStats{
		RecruiterID: m.RecruiterID,
		Metric:      domain.PopulationMetric(m.Metric),
		Count:       m.CountN,
		Mean:        m.Mean,
		M2:          m.M2,
		Samples:     m.Samples,
	}
}

const selectPopulationFields = "RECRUITER_ID, METRIC, COUNT_N, MEAN, M2, SAMPLES, UPDATED_AT"

// Get fetches the running stats for one metric in a recruiter's pool,
// nil when never recorded.
func (r *sqlxPopulationRepository) Get(ctx context.Context, recruiterID string, metric domain.PopulationMetric) (*domain.PopulationStats, error) {
	return r.get(ctx, recruiterID, metric, false)
}

// GetForUpdate locks the stats row until the surrounding transaction
// ends. Welford updates read, fold, and write back; without the lock two
// concurrent completions would both fold into the same starting state.
func (r *sqlxPopulationRepository) GetForUpdate(ctx context.Context, recruiterID string, metric domain.PopulationMetric) (*domain.PopulationStats, error) {
	return r.get(ctx, recruiterID, metric, true)
}

func (r *sqlxPopulationRepository) get(ctx context.Context, recruiterID string, metric domain.PopulationMetric, forUpdate bool) (*domain.PopulationStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM population_stats WHERE recruiter_id = :1 AND metric = :2`, selectPopulationFields)
	if forUpdate {
		query += " FOR UPDATE"
	}
	executor := GetExecutor(ctx, r.db)
	var m models.PopulationStats
	row := executor.QueryRowContext(ctx, query, recruiterID, string(metric))
	if err := row.Scan(&m.RecruiterID, &m.Metric, &m.CountN, &m.Mean, &m.M2, &m.Samples, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get population stats for %s: %w", metric, err)
	}
	return toDomainPopulationStats(&m), nil
}

// GetAll fetches a recruiter's distributions keyed by metric.
func (r *sqlxPopulationRepository) GetAll(ctx context.Context, recruiterID string) (map[domain.PopulationMetric]*domain.PopulationStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM population_stats WHERE recruiter_id = :1`, selectPopulationFields)
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query population stats: %w", err)
	}
	defer rows.Close()

	result := make(map[domain.PopulationMetric]*domain.PopulationStats)
	for rows.Next() {
		var m models.PopulationStats
		if err := rows.Scan(&m.RecruiterID, &m.Metric, &m.CountN, &m.Mean, &m.M2, &m.Samples, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan population stats: %w", err)
		}
		stats := toDomainPopulationStats(&m)
		result[stats.Metric] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate population stats: %w", err)
	}
	return result, nil
}

// Save upserts the stats row for a recruiter/metric pair. Callers that
// fold new samples in must hold the row lock via GetForUpdate; Save
// writes absolute values.
func (r *sqlxPopulationRepository) Save(ctx context.Context, stats *domain.PopulationStats) error {
	samples := models.Float64Slice(stats.Samples)
	samplesVal, err := samples.Value()
	if err != nil {
		return fmt.Errorf("failed to convert samples: %w", err)
	}

	query := `MERGE INTO population_stats ps
	          USING (SELECT :1 AS recruiter_id, :2 AS metric FROM dual) src
	          ON (ps.recruiter_id = src.recruiter_id AND ps.metric = src.metric)
	          WHEN MATCHED THEN UPDATE SET count_n = :3, mean = :4, m2 = :5, samples = :6, updated_at = :7
	          WHEN NOT MATCHED THEN INSERT (RECRUITER_ID, METRIC, COUNT_N, MEAN, M2, SAMPLES, UPDATED_AT)
	          VALUES (:8, :9, :10, :11, :12, :13, :14)`

	now := time.Now()
	executor := GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, query,
		stats.RecruiterID, string(stats.Metric),
		stats.Count, stats.Mean, stats.M2, samplesVal, now,
		stats.RecruiterID, string(stats.Metric), stats.Count, stats.Mean, stats.M2, samplesVal, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save population stats for %s: %w", stats.Metric, err)
	}
	return nil
}
