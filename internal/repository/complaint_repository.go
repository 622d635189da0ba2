package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrVersionConflict is returned when an update lost an optimistic-lock
// race: the row exists but its version moved since the read.
var ErrVersionConflict = errors.New("complaint version conflict")

// ComplaintFilter captures role-scoped listing parameters.
type ComplaintFilter struct {
	ComplainantID     *string
	AssignedToStaffID *string
	DepartmentID      *string
	Statuses          []domain.ComplaintStatus
	Limit             int
	Offset            int
}

// CategoryCount is one bucket of the category distribution.
type CategoryCount struct {
	Category string
	Count    int64
}

// PriorityCount is one bucket of the priority distribution.
type PriorityCount struct {
	Priority domain.ComplaintPriority
	Count    int64
}

// StaffPerformance aggregates per-staff workload inside a department.
type StaffPerformance struct {
	StaffID  string
	Total    int64
	Resolved int64
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	// Update writes the full record guarded by the complaint's Version;
	// it bumps Version on success, returns ErrVersionConflict when the
	// stored version moved, and pgx.ErrNoRows when the row is gone.
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	Count(ctx context.Context, filter ComplaintFilter) (int64, error)
	CategoryCounts(ctx context.Context, top int) ([]CategoryCount, error)
	PriorityCounts(ctx context.Context) ([]PriorityCount, error)
	StaffPerformance(ctx context.Context, departmentID string) ([]StaffPerformance, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, title, description, category_id, department_id, priority, status,
               complainant_id, assigned_to_staff_id, attachments, submitted_at, assigned_at,
               resolved_at, resolution_note, feedback_rating, feedback_comment, version,
               created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, title, description, category_id, department_id, priority, status,
            complainant_id, assigned_to_staff_id, attachments, submitted_at, created_at, updated_at, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11,$11,1)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ID,
		complaint.Title,
		complaint.Description,
		complaint.CategoryID,
		complaint.DepartmentID,
		complaint.Priority,
		complaint.Status,
		complaint.ComplainantID,
		complaint.AssignedToStaffID,
		complaint.Attachments,
		complaint.SubmittedAt,
	).Scan(&complaint.Version, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET priority=$1, status=$2, assigned_to_staff_id=$3, assigned_at=$4,
            resolved_at=$5, resolution_note=$6, feedback_rating=$7, feedback_comment=$8,
            version=version+1, updated_at=NOW()
        WHERE id=$9 AND version=$10`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Priority,
		complaint.Status,
		complaint.AssignedToStaffID,
		complaint.AssignedAt,
		complaint.ResolvedAt,
		complaint.ResolutionNote,
		complaint.FeedbackRating,
		complaint.FeedbackComment,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM complaints WHERE id=$1)`, complaint.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrVersionConflict
		}
		return pgx.ErrNoRows
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.CategoryID,
		&complaint.DepartmentID,
		&complaint.Priority,
		&complaint.Status,
		&complaint.ComplainantID,
		&complaint.AssignedToStaffID,
		&complaint.Attachments,
		&complaint.SubmittedAt,
		&complaint.AssignedAt,
		&complaint.ResolvedAt,
		&complaint.ResolutionNote,
		&complaint.FeedbackRating,
		&complaint.FeedbackComment,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func buildComplaintClauses(filter ComplaintFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ComplainantID != nil {
		args = append(args, *filter.ComplainantID)
		clauses = append(clauses, fmt.Sprintf("complainant_id=$%d", len(args)))
	}
	if filter.AssignedToStaffID != nil {
		args = append(args, *filter.AssignedToStaffID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_staff_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	return clauses, args
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses, args := buildComplaintClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		complaintColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) Count(ctx context.Context, filter ComplaintFilter) (int64, error) {
	clauses, args := buildComplaintClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM complaints WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepository) CategoryCounts(ctx context.Context, top int) ([]CategoryCount, error) {
	if top <= 0 {
		top = 5
	}
	query := fmt.Sprintf(`
        SELECT cat.name, COUNT(*) AS cnt
        FROM complaints c
        JOIN categories cat ON cat.id = c.category_id
        GROUP BY cat.name
        ORDER BY cnt DESC
        LIMIT %d`, top)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var bucket CategoryCount
		if err := rows.Scan(&bucket.Category, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *complaintRepository) PriorityCounts(ctx context.Context) ([]PriorityCount, error) {
	const query = `
        SELECT priority, COUNT(*) FROM complaints GROUP BY priority`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PriorityCount
	for rows.Next() {
		var bucket PriorityCount
		if err := rows.Scan(&bucket.Priority, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func (r *complaintRepository) StaffPerformance(ctx context.Context, departmentID string) ([]StaffPerformance, error) {
	const query = `
        SELECT assigned_to_staff_id,
               COUNT(*),
               COUNT(*) FILTER (WHERE status='resolved')
        FROM complaints
        WHERE department_id=$1 AND assigned_to_staff_id IS NOT NULL
        GROUP BY assigned_to_staff_id`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StaffPerformance
	for rows.Next() {
		var perf StaffPerformance
		if err := rows.Scan(&perf.StaffID, &perf.Total, &perf.Resolved); err != nil {
			return nil, err
		}
		result = append(result, perf)
	}
	return result, rows.Err()
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(
			&complaint.ID,
			&complaint.Title,
			&complaint.Description,
			&complaint.CategoryID,
			&complaint.DepartmentID,
			&complaint.Priority,
			&complaint.Status,
			&complaint.ComplainantID,
			&complaint.AssignedToStaffID,
			&complaint.Attachments,
			&complaint.SubmittedAt,
			&complaint.AssignedAt,
			&complaint.ResolvedAt,
			&complaint.ResolutionNote,
			&complaint.FeedbackRating,
			&complaint.FeedbackComment,
			&complaint.Version,
			&complaint.CreatedAt,
			&complaint.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
