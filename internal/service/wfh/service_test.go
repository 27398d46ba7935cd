package wfh

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var (
	owner = user.User{ID: "emp-1", Role: user.RoleEmployee, Designation: user.DesignationLA, Status: user.StatusActive, ReportingBhID: strPtr("bh-1")}

	emp   = user.Actor{ID: owner.ID, Role: owner.Role, Designation: owner.Designation}
	hr    = user.Actor{ID: "hr-1", Role: user.RoleHR}
	bh    = user.Actor{ID: "bh-1", Role: user.RoleBusinessHead}
	admin = user.Actor{ID: "admin-1", Role: user.RoleAdmin}
)

func newService() (*WfhServiceImpl, *servicetest.WfhRepo) {
	users := servicetest.NewUserRepo(owner)
	repo := servicetest.NewWfhRepo(users)
	return NewWfhService(servicetest.Tx{}, repo, users, &servicetest.AuditRepo{}).(*WfhServiceImpl), repo
}

func create(t *testing.T, svc *WfhServiceImpl) wfh.WfhRequestResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), emp, wfh.CreateWfhRequest{
		StartDate: "2026-03-09", EndDate: "2026-03-10", Reason: "internet install at home",
	})
	require.NoError(t, err)
	return resp
}

func approve() approval.ReviewRequest { return approval.ReviewRequest{Decision: "APPROVED"} }

func TestReview_FullChain(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	created := create(t, svc)
	assert.Equal(t, approval.LevelHR, created.CurrentLevel)

	_, err := svc.Review(ctx, bh, created.ID, approve())
	assert.ErrorIs(t, err, approval.ErrNotYourLevel)

	resp, err := svc.Review(ctx, hr, created.ID, approve())
	require.NoError(t, err)
	assert.Equal(t, approval.LevelBusinessHead, resp.CurrentLevel)
	assert.Equal(t, approval.StatusApproved, resp.HRStatus)
	assert.Equal(t, approval.StatusPending, resp.Status)

	resp, err = svc.Review(ctx, bh, created.ID, approve())
	require.NoError(t, err)
	assert.Equal(t, approval.LevelAdmin, resp.CurrentLevel)

	resp, err = svc.Review(ctx, admin, created.ID, approve())
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, resp.Status)
	assert.Equal(t, approval.StatusApproved, resp.AdminStatus)

	assert.Equal(t, map[approval.Level]string{
		approval.LevelHR:           hr.ID,
		approval.LevelBusinessHead: bh.ID,
		approval.LevelAdmin:        admin.ID,
	}, repo.Reviewers[created.ID])
}

func TestReview_RejectAtBusinessHead(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	created := create(t, svc)

	_, err := svc.Review(ctx, hr, created.ID, approve())
	require.NoError(t, err)

	resp, err := svc.Review(ctx, bh, created.ID, approval.ReviewRequest{Decision: "REJECTED", Remarks: strPtr("client visit scheduled")})
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, resp.Status)
	assert.Equal(t, approval.LevelBusinessHead, resp.CurrentLevel)

	_, err = svc.Review(ctx, admin, created.ID, approve())
	assert.ErrorIs(t, err, approval.ErrAlreadyProcessed)
}

func TestListPending_ByLevel(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	created := create(t, svc)

	hrQueue, err := svc.ListPending(ctx, hr, approval.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, hrQueue.Requests, 1)

	bhQueue, err := svc.ListPending(ctx, bh, approval.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, bhQueue.Requests)

	_, err = svc.Review(ctx, hr, created.ID, approve())
	require.NoError(t, err)

	bhQueue, err = svc.ListPending(ctx, bh, approval.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, bhQueue.Requests, 1)

	_, err = svc.ListPending(ctx, emp, approval.ListFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestDelete(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	created := create(t, svc)

	assert.ErrorIs(t, svc.Delete(ctx, bh, created.ID), user.ErrInsufficientPermissions)
	require.NoError(t, svc.Delete(ctx, hr, created.ID))
	assert.Empty(t, repo.Requests)
}
