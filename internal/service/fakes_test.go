package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// In-memory repository fakes. They mirror the persistence contracts,
// including pgx.ErrNoRows for missing rows and the optimistic version
// check on complaint updates.

type fakeComplaintRepo struct {
	mu            sync.Mutex
	complaints    map[string]domain.Complaint
	order         []string
	categoryNames map[string]string
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints:    map[string]domain.Complaint{},
		categoryNames: map[string]string{},
	}
}

func (f *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	complaint.Version = 1
	f.complaints[complaint.ID] = *complaint
	f.order = append(f.order, complaint.ID)
	return nil
}

func (f *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != complaint.Version {
		return repository.ErrVersionConflict
	}
	complaint.Version++
	complaint.UpdatedAt = time.Now().UTC()
	f.complaints[complaint.ID] = *complaint
	return nil
}

func (f *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stored
	return &copied, nil
}

func matchesFilter(c domain.Complaint, filter repository.ComplaintFilter) bool {
	if filter.ComplainantID != nil && c.ComplainantID != *filter.ComplainantID {
		return false
	}
	if filter.AssignedToStaffID != nil {
		if c.AssignedToStaffID == nil || *c.AssignedToStaffID != *filter.AssignedToStaffID {
			return false
		}
	}
	if filter.DepartmentID != nil && c.DepartmentID != *filter.DepartmentID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if c.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Complaint, 0)
	for i := len(f.order) - 1; i >= 0; i-- {
		c := f.complaints[f.order[i]]
		if matchesFilter(c, filter) {
			out = append(out, c)
		}
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeComplaintRepo) Count(_ context.Context, filter repository.ComplaintFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.complaints {
		if matchesFilter(c, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeComplaintRepo) CategoryCounts(_ context.Context, top int) ([]repository.CategoryCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byName := map[string]int64{}
	for _, c := range f.complaints {
		name := f.categoryNames[c.CategoryID]
		if name == "" {
			name = c.CategoryID
		}
		byName[name]++
	}
	out := make([]repository.CategoryCount, 0, len(byName))
	for name, count := range byName {
		out = append(out, repository.CategoryCount{Category: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out, nil
}

func (f *fakeComplaintRepo) PriorityCounts(_ context.Context) ([]repository.PriorityCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byPriority := map[domain.ComplaintPriority]int64{}
	for _, c := range f.complaints {
		byPriority[c.Priority]++
	}
	out := make([]repository.PriorityCount, 0, len(byPriority))
	for priority, count := range byPriority {
		out = append(out, repository.PriorityCount{Priority: priority, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (f *fakeComplaintRepo) StaffPerformance(_ context.Context, departmentID string) ([]repository.StaffPerformance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byStaff := map[string]*repository.StaffPerformance{}
	for _, c := range f.complaints {
		if c.DepartmentID != departmentID || c.AssignedToStaffID == nil {
			continue
		}
		perf, ok := byStaff[*c.AssignedToStaffID]
		if !ok {
			perf = &repository.StaffPerformance{StaffID: *c.AssignedToStaffID}
			byStaff[*c.AssignedToStaffID] = perf
		}
		perf.Total++
		if c.Status == domain.StatusResolved {
			perf.Resolved++
		}
	}
	out := make([]repository.StaffPerformance, 0, len(byStaff))
	for _, perf := range byStaff {
		out = append(out, *perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[string]domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]domain.Category{}}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	f.categories[category.ID] = *category
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := category
	return &copied, nil
}

func (f *fakeCategoryRepo) List(_ context.Context, departmentID *string) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(f.categories))
	for _, category := range f.categories {
		if departmentID != nil && category.DepartmentID != *departmentID {
			continue
		}
		out = append(out, category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeDepartmentRepo struct {
	departments map[string]domain.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: map[string]domain.Department{}}
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	f.departments[dept.ID] = *dept
	return nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := f.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.departments[dept.ID] = *dept
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(f.departments))
	for _, dept := range f.departments {
		out = append(out, dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.DepartmentID != nil {
			if user.DepartmentID == nil || *user.DepartmentID != *filter.DepartmentID {
				continue
			}
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeAuditRepo struct {
	entries []domain.AuditEntry
	failure error
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	if f.failure != nil {
		return f.failure
	}
	entry.Timestamp = time.Now().UTC()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.AuditEntry, error) {
	out := make([]domain.AuditEntry, 0)
	for _, entry := range f.entries {
		if entry.ComplaintID == complaintID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []domain.Notification
	failure       error
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if f.failure != nil {
		return f.failure
	}
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserID != userID {
			continue
		}
		out = append(out, f.notifications[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) forUser(userID string) []domain.Notification {
	out := make([]domain.Notification, 0)
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
