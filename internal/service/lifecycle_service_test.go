package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

type lifecycleEnv struct {
	complaints    *fakeComplaintRepo
	categories    *fakeCategoryRepo
	departments   *fakeDepartmentRepo
	users         *fakeUserRepo
	audit         *fakeAuditRepo
	notifications *fakeNotificationRepo
	lifecycle     *LifecycleService

	hod         domain.AuthContext
	staff       domain.AuthContext
	complainant domain.AuthContext
	admin       domain.AuthContext
}

const (
	envDeptID     = "dept-it"
	envCategoryID = "cat-network"
)

func newLifecycleEnv(t *testing.T) *lifecycleEnv {
	t.Helper()

	env := &lifecycleEnv{
		complaints:    newFakeComplaintRepo(),
		categories:    newFakeCategoryRepo(),
		departments:   newFakeDepartmentRepo(),
		users:         newFakeUserRepo(),
		audit:         &fakeAuditRepo{},
		notifications: &fakeNotificationRepo{},
	}

	hodID := "user-hod"
	deptID := envDeptID
	env.departments.departments[deptID] = domain.Department{ID: deptID, Name: "IT Services", HodID: &hodID}
	env.categories.categories[envCategoryID] = domain.Category{ID: envCategoryID, Name: "Network Issue", DepartmentID: deptID}
	env.complaints.categoryNames[envCategoryID] = "Network Issue"

	addUser := func(id string, role domain.Role, dept *string) domain.AuthContext {
		env.users.users[id] = domain.User{ID: id, Name: id, Email: id + "@example.com", Role: role, DepartmentID: dept}
		return domain.AuthContext{UserID: id, Role: role, DepartmentID: dept}
	}
	env.hod = addUser(hodID, domain.RoleHod, &deptID)
	env.staff = addUser("user-staff", domain.RoleStaff, &deptID)
	env.complainant = addUser("user-complainant", domain.RoleComplainant, nil)
	env.admin = addUser("user-admin", domain.RoleAdmin, nil)

	dispatcher := events.NewInMemoryDispatcher()
	env.lifecycle = NewLifecycleService(LifecycleDependencies{
		ComplaintRepo:  env.complaints,
		CategoryRepo:   env.categories,
		DepartmentRepo: env.departments,
		UserRepo:       env.users,
		AuditRepo:      env.audit,
		Dispatcher:     dispatcher,
	})
	NewNotificationService(env.notifications, dispatcher, nil).RegisterHandlers()
	return env
}

func (e *lifecycleEnv) submit(t *testing.T) *domain.Complaint {
	t.Helper()
	complaint, err := e.lifecycle.Submit(context.Background(), e.complainant, SubmitInput{
		Title:       "Wifi down in block B",
		Description: "No connectivity since morning",
		CategoryID:  envCategoryID,
	})
	require.NoError(t, err)
	return complaint
}

func TestSubmitRoutesToDepartmentAndNotifiesHod(t *testing.T) {
	env := newLifecycleEnv(t)

	complaint := env.submit(t)

	assert.Equal(t, domain.StatusPending, complaint.Status)
	assert.Equal(t, envDeptID, complaint.DepartmentID)
	assert.Equal(t, domain.PriorityMedium, complaint.Priority)
	assert.Equal(t, env.complainant.UserID, complaint.ComplainantID)
	assert.Nil(t, complaint.AssignedToStaffID)

	inbox := env.notifications.forUser(env.hod.UserID)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationNewComplaint, inbox[0].Type)
	assert.Equal(t, "New complaint assigned: Wifi down in block B", inbox[0].Message)
	assert.Equal(t, complaint.ID, inbox[0].ComplaintID)

	// Submission leaves no audit entry.
	assert.Empty(t, env.audit.entries)
}

func TestSubmitWithoutHodSkipsNotification(t *testing.T) {
	env := newLifecycleEnv(t)
	dept := env.departments.departments[envDeptID]
	dept.HodID = nil
	env.departments.departments[envDeptID] = dept

	env.submit(t)

	assert.Empty(t, env.notifications.notifications)
}

func TestSubmitValidation(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	_, err := env.lifecycle.Submit(ctx, env.complainant, SubmitInput{Title: "  ", Description: "x", CategoryID: envCategoryID})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = env.lifecycle.Submit(ctx, env.complainant, SubmitInput{Title: "t", Description: "d", CategoryID: "missing"})
	assert.Equal(t, apperrors.CodeInvalidReference, apperrors.CodeOf(err))

	_, err = env.lifecycle.Submit(ctx, env.complainant, SubmitInput{Title: "t", Description: "d", CategoryID: envCategoryID, Priority: "urgent"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestAssignToStaffHappyPath(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)

	require.NoError(t, env.lifecycle.AssignToStaff(context.Background(), env.hod, complaint.ID, env.staff.UserID))

	stored, err := env.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, stored.Status)
	require.NotNil(t, stored.AssignedToStaffID)
	assert.Equal(t, env.staff.UserID, *stored.AssignedToStaffID)
	assert.NotNil(t, stored.AssignedAt)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, domain.AuditActionAssigned, env.audit.entries[0].Action)
	assert.Equal(t, "Assigned to staff", env.audit.entries[0].Note)
	assert.Equal(t, env.hod.UserID, env.audit.entries[0].UserID)

	inbox := env.notifications.forUser(env.staff.UserID)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationAssigned, inbox[0].Type)
	assert.Equal(t, "You have been assigned a complaint: Wifi down in block B", inbox[0].Message)
}

func TestAssignToStaffAuthorization(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	err := env.lifecycle.AssignToStaff(ctx, env.complainant, complaint.ID, env.staff.UserID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	err = env.lifecycle.AssignToStaff(ctx, env.staff, complaint.ID, env.staff.UserID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Denied attempts leave the complaint untouched.
	stored, getErr := env.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.AssignedToStaffID)
	assert.Empty(t, env.audit.entries)
}

func TestAssignToStaffValidatesAssignee(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	err := env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, "ghost")
	assert.Equal(t, apperrors.CodeInvalidReference, apperrors.CodeOf(err))

	err = env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.complainant.UserID)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	otherDept := "dept-facilities"
	env.users.users["staff-other"] = domain.User{ID: "staff-other", Role: domain.RoleStaff, DepartmentID: &otherDept}
	err = env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, "staff-other")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// An admin may cross department lines.
	err = env.lifecycle.AssignToStaff(ctx, env.admin, complaint.ID, "staff-other")
	assert.NoError(t, err)
}

func TestAssignToStaffResolvedIsFrozen(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	require.NoError(t, env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID))
	require.NoError(t, env.lifecycle.Resolve(ctx, env.staff, complaint.ID, "replaced the switch"))

	err := env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestAdvanceStatusTransitions(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	// pending -> in-progress skips a stage.
	err := env.lifecycle.AdvanceStatus(ctx, env.staff, complaint.ID, domain.StatusInProgress, "")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	// resolved is never a direct target.
	err = env.lifecycle.AdvanceStatus(ctx, env.staff, complaint.ID, domain.StatusResolved, "")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	err = env.lifecycle.AdvanceStatus(ctx, env.staff, complaint.ID, "closed", "")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	require.NoError(t, env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID))
	require.NoError(t, env.lifecycle.AdvanceStatus(ctx, env.staff, complaint.ID, domain.StatusInProgress, "looking into it"))

	stored, getErr := env.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusInProgress, stored.Status)

	require.Len(t, env.audit.entries, 2)
	assert.Equal(t, domain.AuditActionStatusUpdate, env.audit.entries[1].Action)
	assert.Equal(t, "looking into it", env.audit.entries[1].Note)
}

func TestAdvanceStatusDefaultsAuditNote(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	require.NoError(t, env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID))
	require.NoError(t, env.lifecycle.AdvanceStatus(ctx, env.staff, complaint.ID, domain.StatusInProgress, "  "))

	last := env.audit.entries[len(env.audit.entries)-1]
	assert.Equal(t, "Status updated to in-progress", last.Note)
}

func TestResolveNotifiesComplainant(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	require.NoError(t, env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID))
	require.NoError(t, env.lifecycle.AdvanceStatus(ctx, env.staff, complaint.ID, domain.StatusInProgress, ""))
	require.NoError(t, env.lifecycle.Resolve(ctx, env.staff, complaint.ID, "replaced the switch"))

	stored, err := env.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, stored.Status)
	require.NotNil(t, stored.ResolutionNote)
	assert.Equal(t, "replaced the switch", *stored.ResolutionNote)
	assert.NotNil(t, stored.ResolvedAt)

	inbox := env.notifications.forUser(env.complainant.UserID)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationResolved, inbox[0].Type)
	assert.Equal(t, "Your complaint has been resolved: Wifi down in block B", inbox[0].Message)

	// assign, status_update, resolved.
	require.Len(t, env.audit.entries, 3)
	assert.Equal(t, domain.AuditActionResolved, env.audit.entries[2].Action)
	assert.Equal(t, "replaced the switch", env.audit.entries[2].Note)
}

func TestResolveRequiresOpenAssignedWork(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	err := env.lifecycle.Resolve(ctx, env.staff, complaint.ID, "note")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	err = env.lifecycle.Resolve(ctx, env.complainant, complaint.ID, "note")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	require.NoError(t, env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID))
	require.NoError(t, env.lifecycle.Resolve(ctx, env.staff, complaint.ID, "done"))

	err = env.lifecycle.Resolve(ctx, env.staff, complaint.ID, "again")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestSubmitFeedback(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	err := env.lifecycle.SubmitFeedback(ctx, env.complainant, complaint.ID, 6, "")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	err = env.lifecycle.SubmitFeedback(ctx, env.complainant, complaint.ID, 4, "")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err), "feedback before resolution")

	require.NoError(t, env.lifecycle.AssignToStaff(ctx, env.hod, complaint.ID, env.staff.UserID))
	require.NoError(t, env.lifecycle.Resolve(ctx, env.staff, complaint.ID, "done"))

	err = env.lifecycle.SubmitFeedback(ctx, env.staff, complaint.ID, 4, "")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err), "only the complainant rates")

	auditBefore := len(env.audit.entries)
	notificationsBefore := len(env.notifications.notifications)
	require.NoError(t, env.lifecycle.SubmitFeedback(ctx, env.complainant, complaint.ID, 4, " quick fix "))

	stored, getErr := env.complaints.GetByID(ctx, complaint.ID)
	require.NoError(t, getErr)
	require.NotNil(t, stored.FeedbackRating)
	assert.Equal(t, 4, *stored.FeedbackRating)
	require.NotNil(t, stored.FeedbackComment)
	assert.Equal(t, "quick fix", *stored.FeedbackComment)

	// Feedback is silent: no audit entry, no notification.
	assert.Len(t, env.audit.entries, auditBefore)
	assert.Len(t, env.notifications.notifications, notificationsBefore)

	err = env.lifecycle.SubmitFeedback(ctx, env.complainant, complaint.ID, 2, "changed my mind")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err), "first write wins")
}

func TestConcurrentUpdateConflict(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	ctx := context.Background()

	// Another writer moved the record after our read.
	stale := *complaint
	moved := *complaint
	require.NoError(t, env.complaints.Update(ctx, &moved))

	stale.Status = domain.StatusAssigned
	err := env.lifecycle.saveComplaint(ctx, &stale)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestAuditFailureDoesNotFailMutation(t *testing.T) {
	env := newLifecycleEnv(t)
	complaint := env.submit(t)
	env.audit.failure = assert.AnError

	err := env.lifecycle.AssignToStaff(context.Background(), env.hod, complaint.ID, env.staff.UserID)
	assert.NoError(t, err)

	stored, getErr := env.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusAssigned, stored.Status)
}

func TestUnknownComplaintIsNotFound(t *testing.T) {
	env := newLifecycleEnv(t)

	err := env.lifecycle.AssignToStaff(context.Background(), env.hod, "missing", env.staff.UserID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
