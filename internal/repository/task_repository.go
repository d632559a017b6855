package repository

import (
	"context"
	"fmt"
	"strings"

	"hiremate/internal/domain"
	"hiremate/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxTaskRepository implements domain.TaskRepository using sqlx.
type sqlxTaskRepository struct {
	db *sqlx.DB
}

// NewSQLXTaskRepository creates a new instance of sqlxTaskRepository.
func NewSQLXTaskRepository(db *sqlx.DB) domain.TaskRepository {
	return &sqlxTaskRepository{db: db}
}

func toDomainTask(m *models.Task, options []models.TaskOption) *domain.Task {
	if m == nil {
		return nil
	}
	task := &domain.Task{
		ID:        m.ID,
		Title:     m.Title,
		Scenario:  m.Scenario,
		Category:  m.Category.String,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, o := range options {
		task.Options = append(task.Options, domain.TaskOption{
			ID:        o.ID,
			TaskID:    o.TaskID,
			Label:     o.Label,
			Body:      o.Body,
			RiskLevel: domain.RiskLevel(o.RiskLevel),
			Position:  o.Position,
		})
	}
	return task
}

func (r *sqlxTaskRepository) optionsForTasks(ctx context.Context, taskIDs []string) (map[string][]models.TaskOption, error) {
	if len(taskIDs) == 0 {
		return map[string][]models.TaskOption{}, nil
	}
	placeholders := make([]string, len(taskIDs))
	args := make([]interface{}, len(taskIDs))
	for i, id := range taskIDs {
		placeholders[i] = fmt.Sprintf(":%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT ID, TASK_ID, LABEL, BODY, RISK_LEVEL, POSITION, CREATED_AT, UPDATED_AT
	         FROM task_options WHERE task_id IN (%s) AND deleted_at IS NULL ORDER BY task_id, position`,
		strings.Join(placeholders, ", "))

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query task options: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.TaskOption)
	for rows.Next() {
		var o models.TaskOption
		if err := rows.Scan(&o.ID, &o.TaskID, &o.Label, &o.Body, &o.RiskLevel, &o.Position, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task option: %w", err)
		}
		result[o.TaskID] = append(result[o.TaskID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task options: %w", err)
	}
	return result, nil
}

// GetByID fetches one task with its options, nil when absent.
func (r *sqlxTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	tasks, err := r.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return tasks[id], nil
}

// GetByIDs fetches several tasks at once, keyed by ID. Missing tasks are
// simply absent from the map.
func (r *sqlxTaskRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Task, error) {
	result := make(map[string]*domain.Task)
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf(":%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT ID, TITLE, SCENARIO, CATEGORY, CREATED_AT, UPDATED_AT
	         FROM tasks WHERE id IN (%s) AND deleted_at IS NULL`, strings.Join(placeholders, ", "))

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var taskModels []models.Task
	for rows.Next() {
		var m models.Task
		if err := rows.Scan(&m.ID, &m.Title, &m.Scenario, &m.Category, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		taskModels = append(taskModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	options, err := r.optionsForTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range taskModels {
		m := &taskModels[i]
		result[m.ID] = toDomainTask(m, options[m.ID])
	}
	return result, nil
}

// List returns up to limit tasks, optionally filtered by category.
func (r *sqlxTaskRepository) List(ctx context.Context, category string, limit int) ([]*domain.Task, error) {
	if limit <= 0 {
		limit = 20
	}

	var query string
	var args []interface{}
	if category != "" {
		query = fmt.Sprintf(`SELECT ID, TITLE, SCENARIO, CATEGORY, CREATED_AT, UPDATED_AT
		         FROM tasks WHERE category = :1 AND deleted_at IS NULL AND ROWNUM <= %d ORDER BY created_at`, limit)
		args = append(args, category)
	} else {
		query = fmt.Sprintf(`SELECT ID, TITLE, SCENARIO, CATEGORY, CREATED_AT, UPDATED_AT
		         FROM tasks WHERE deleted_at IS NULL AND ROWNUM <= %d ORDER BY created_at`, limit)
	}

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var taskModels []models.Task
	var ids []string
	for rows.Next() {
		var m models.Task
		if err := rows.Scan(&m.ID, &m.Title, &m.Scenario, &m.Category, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		taskModels = append(taskModels, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	options, err := r.optionsForTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	var result []*domain.Task
	for i := range taskModels {
		m := &taskModels[i]
		result = append(result, toDomainTask(m, options[m.ID]))
	}
	return result, nil
}
