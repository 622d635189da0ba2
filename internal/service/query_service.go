package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/authz"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const (
	adminStatsCacheKey = "dashboard:admin"
	listLimit          = 500
	recentLimit        = 10
	categoryTopLimit   = 5
)

var openStatuses = []domain.ComplaintStatus{
	domain.StatusPending,
	domain.StatusAssigned,
	domain.StatusInProgress,
}

// Stats is the role-scoped dashboard snapshot. The admin-only and hod-only
// sections stay nil for other roles.
type Stats struct {
	Total            int64                          `json:"total"`
	Pending          int64                          `json:"pending"`
	Resolved         int64                          `json:"resolved"`
	ResolutionRate   string                         `json:"resolution_rate"`
	CategoryStats    []repository.CategoryCount     `json:"category_stats,omitempty"`
	PriorityStats    []repository.PriorityCount     `json:"priority_stats,omitempty"`
	RecentComplaints []domain.Complaint             `json:"recent_complaints,omitempty"`
	StaffPerformance []repository.StaffPerformance  `json:"staff_performance,omitempty"`
}

// QueryService serves role-scoped reads: listings, single-complaint
// fetches with the audit trail, and dashboard aggregates. Reads may lag
// the most recent write; the admin snapshot is additionally cached.
type QueryService struct {
	complaints repository.ComplaintRepository
	audit      repository.AuditRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewQueryService constructs the service. The cache client is optional.
func NewQueryService(complaints repository.ComplaintRepository, audit repository.AuditRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &QueryService{
		complaints: complaints,
		audit:      audit,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// ListComplaints returns the complaints visible to the caller, newest first.
func (s *QueryService) ListComplaints(ctx context.Context, actor domain.AuthContext) ([]domain.Complaint, error) {
	filter, err := scopeFilter(actor)
	if err != nil {
		return nil, err
	}
	filter.Limit = listLimit
	complaints, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// GetComplaint returns one complaint with its ordered audit trail,
// gated by the caller's visibility scope.
func (s *QueryService) GetComplaint(ctx context.Context, actor domain.AuthContext, complaintID string) (*domain.Complaint, []domain.AuditEntry, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !authz.CanViewComplaint(actor, complaint) {
		return nil, nil, apperrors.NewForbidden("complaint not visible to caller")
	}
	trail, err := s.audit.ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return complaint, trail, nil
}

// Aggregate computes the caller's dashboard snapshot.
func (s *QueryService) Aggregate(ctx context.Context, actor domain.AuthContext) (*Stats, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.adminStats(ctx)
	case domain.RoleHod:
		return s.hodStats(ctx, actor)
	case domain.RoleStaff:
		return s.roleCounts(ctx, repository.ComplaintFilter{AssignedToStaffID: &actor.UserID})
	case domain.RoleComplainant:
		return s.roleCounts(ctx, repository.ComplaintFilter{ComplainantID: &actor.UserID})
	}
	return nil, apperrors.NewForbidden("unknown role")
}

func (s *QueryService) adminStats(ctx context.Context) (*Stats, error) {
	if cached := s.cachedAdminStats(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.roleCounts(ctx, repository.ComplaintFilter{})
	if err != nil {
		return nil, err
	}
	if stats.CategoryStats, err = s.complaints.CategoryCounts(ctx, categoryTopLimit); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.PriorityStats, err = s.complaints.PriorityCounts(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.RecentComplaints, err = s.complaints.ListWithFilter(ctx, repository.ComplaintFilter{Limit: recentLimit}); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.storeAdminStats(ctx, stats)
	return stats, nil
}

func (s *QueryService) hodStats(ctx context.Context, actor domain.AuthContext) (*Stats, error) {
	if actor.DepartmentID == nil {
		return nil, apperrors.NewForbidden("hod account has no department scope")
	}
	stats, err := s.roleCounts(ctx, repository.ComplaintFilter{DepartmentID: actor.DepartmentID})
	if err != nil {
		return nil, err
	}
	if stats.StaffPerformance, err = s.complaints.StaffPerformance(ctx, *actor.DepartmentID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *QueryService) roleCounts(ctx context.Context, filter repository.ComplaintFilter) (*Stats, error) {
	total, err := s.complaints.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	pendingFilter := filter
	pendingFilter.Statuses = openStatuses
	pending, err := s.complaints.Count(ctx, pendingFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	resolvedFilter := filter
	resolvedFilter.Statuses = []domain.ComplaintStatus{domain.StatusResolved}
	resolved, err := s.complaints.Count(ctx, resolvedFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &Stats{
		Total:          total,
		Pending:        pending,
		Resolved:       resolved,
		ResolutionRate: resolutionRate(total, resolved),
	}, nil
}

func resolutionRate(total, resolved int64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(resolved)*100/float64(total))
}

func scopeFilter(actor domain.AuthContext) (repository.ComplaintFilter, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return repository.ComplaintFilter{}, nil
	case domain.RoleHod:
		if actor.DepartmentID == nil {
			return repository.ComplaintFilter{}, apperrors.NewForbidden("hod account has no department scope")
		}
		return repository.ComplaintFilter{DepartmentID: actor.DepartmentID}, nil
	case domain.RoleStaff:
		userID := actor.UserID
		return repository.ComplaintFilter{AssignedToStaffID: &userID}, nil
	case domain.RoleComplainant:
		userID := actor.UserID
		return repository.ComplaintFilter{ComplainantID: &userID}, nil
	}
	return repository.ComplaintFilter{}, apperrors.NewForbidden("unknown role")
}

func (s *QueryService) cachedAdminStats(ctx context.Context) *Stats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, adminStatsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("stats cache payload invalid", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *QueryService) storeAdminStats(ctx context.Context, stats *Stats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, adminStatsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}
