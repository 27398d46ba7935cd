package visit

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	emp   = user.Actor{ID: "emp-1", Role: user.RoleEmployee, Designation: user.DesignationAE}
	hr    = user.Actor{ID: "hr-1", Role: user.RoleHR}
	admin = user.Actor{ID: "admin-1", Role: user.RoleAdmin}
	bh    = user.Actor{ID: "bh-1", Role: user.RoleBusinessHead}
	aeMgr = user.Actor{ID: "aem-1", Role: user.RoleAEManager}
)

func newService() (*VisitServiceImpl, *servicetest.VisitRepo, *servicetest.AuditRepo) {
	users := servicetest.NewUserRepo(
		user.User{ID: emp.ID, Role: emp.Role, Designation: emp.Designation, Status: user.StatusActive},
	)
	repo := servicetest.NewVisitRepo(users)
	audits := &servicetest.AuditRepo{}
	svc := NewVisitService(servicetest.Tx{}, repo, users, audits).(*VisitServiceImpl)
	return svc, repo, audits
}

func siteVisit() visit.CreateVisitRequest {
	return visit.CreateVisitRequest{
		Kind:      "SITE",
		Date:      "2026-03-04",
		StartTime: "10:00",
		EndTime:   "13:30",
		Location:  "Whitefield plot 12",
		Reason:    "client walkthrough",
	}
}

func TestReview_OnlyHRTier(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, emp, siteVisit())
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, created.Status)

	for _, actor := range []user.Actor{bh, aeMgr} {
		_, err = svc.Review(ctx, actor, created.ID, approval.ReviewRequest{Decision: "APPROVED"})
		assert.ErrorIs(t, err, approval.ErrVisitApprovalForbidden)
	}
	_, err = svc.Review(ctx, emp, created.ID, approval.ReviewRequest{Decision: "APPROVED"})
	assert.ErrorIs(t, err, approval.ErrNotAuthorized)

	resp, err := svc.Review(ctx, hr, created.ID, approval.ReviewRequest{Decision: "APPROVED"})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, resp.Status)
	assert.Equal(t, approval.StatusApproved, resp.HRStatus)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, hr.ID, *resp.ReviewedBy)

	_, err = svc.Review(ctx, admin, created.ID, approval.ReviewRequest{Decision: "REJECTED"})
	assert.ErrorIs(t, err, approval.ErrAlreadyProcessed)
}

func TestListPending_FiltersByKind(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, emp, siteVisit())
	require.NoError(t, err)
	showroom := siteVisit()
	showroom.Kind = "SHOWROOM"
	_, err = svc.Create(ctx, emp, showroom)
	require.NoError(t, err)

	all, err := svc.ListPending(ctx, hr, nil, approval.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Requests, 2)

	kind := visit.KindShowroom
	only, err := svc.ListPending(ctx, hr, &kind, approval.ListFilter{})
	require.NoError(t, err)
	require.Len(t, only.Requests, 1)
	assert.Equal(t, visit.KindShowroom, only.Requests[0].Kind)

	_, err = svc.ListPending(ctx, bh, nil, approval.ListFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	mine, err := svc.ListMine(ctx, emp, &kind, approval.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newService()
	req := siteVisit()
	req.EndTime = "09:00"
	_, err := svc.Create(context.Background(), emp, req)
	assert.Error(t, err)
}

func TestDelete_AdminTierAndAudited(t *testing.T) {
	svc, repo, audits := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, emp, siteVisit())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, emp, created.ID), user.ErrInsufficientPermissions)
	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	assert.Empty(t, repo.Requests)
	require.Len(t, audits.Logs, 1)
	assert.Equal(t, "visit_request", audits.Logs[0].EntityType)

	assert.ErrorIs(t, svc.Delete(ctx, admin, created.ID), visit.ErrVisitRequestNotFound)
}
