package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// AuditRepository stores the append-only trail of lifecycle actions.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	// ListByComplaint returns entries ascending by timestamp; ties keep
	// insertion order.
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_log (id, complaint_id, user_id, action, note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING timestamp`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.ComplaintID,
		entry.UserID,
		entry.Action,
		entry.Note,
	).Scan(&entry.Timestamp)
}

func (r *auditRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, complaint_id, user_id, action, note, timestamp
        FROM audit_log WHERE complaint_id=$1
        ORDER BY timestamp ASC, seq ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.UserID,
			&entry.Action,
			&entry.Note,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
