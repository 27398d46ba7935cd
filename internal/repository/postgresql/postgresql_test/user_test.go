package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string {
	return &s
}

func createTestUser(t *testing.T, ctx context.Context, repo user.UserRepository, email string, role user.Role, reportingBhID *string) user.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := repo.Create(ctx, user.User{
		Name:              "Test " + email,
		Email:             email,
		PasswordHash:      strPtr(string(hashed)),
		Role:              role,
		Designation:       user.DesignationLA,
		Status:            user.StatusActive,
		ReportingBhID:     reportingBhID,
		AllocatedSalary:   decimal.NewFromInt(30000),
		SalaryViewEnabled: true,
		SalaryDeductionBreakdown: user.DeductionBreakdown{
			{Label: "PF", Amount: decimal.NewFromInt(1800), IsFixed: true},
		},
		TimeShortageDeductionEnabled: true,
	})
	require.NoError(t, err)
	return created
}

func TestUserRepository_Create_Success(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userRepo := postgresql.NewUserRepository(setup.DB)

	created := createTestUser(t, ctx, userRepo, "asha@example.com", user.RoleEmployee, nil)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "asha@example.com", created.Email)
	assert.True(t, created.AllocatedSalary.Equal(decimal.NewFromInt(30000)))
	require.Len(t, created.SalaryDeductionBreakdown, 1)
	assert.Equal(t, "PF", created.SalaryDeductionBreakdown[0].Label)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userRepo := postgresql.NewUserRepository(setup.DB)

	createTestUser(t, ctx, userRepo, "dup@example.com", user.RoleEmployee, nil)

	_, err := userRepo.Create(ctx, user.User{
		Name:        "Other",
		Email:       "dup@example.com",
		Role:        user.RoleEmployee,
		Designation: user.DesignationOther,
		Status:      user.StatusActive,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	userRepo := postgresql.NewUserRepository(setup.DB)

	_, err := userRepo.GetByEmail(context.Background(), "notfound@example.com")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_List_BusinessHeadScope(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userRepo := postgresql.NewUserRepository(setup.DB)

	bh := createTestUser(t, ctx, userRepo, "bh@example.com", user.RoleBusinessHead, nil)
	createTestUser(t, ctx, userRepo, "team@example.com", user.RoleEmployee, &bh.ID)
	createTestUser(t, ctx, userRepo, "outsider@example.com", user.RoleEmployee, nil)

	scope := user.ResolveScope(user.Actor{ID: bh.ID, Role: user.RoleBusinessHead})
	filter := user.UserFilter{}
	filter.Normalize()

	users, total, err := userRepo.List(ctx, scope, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	emails := []string{users[0].Email, users[1].Email}
	assert.ElementsMatch(t, []string{"bh@example.com", "team@example.com"}, emails)
}

func TestUserRepository_UpdateStatus_And_ListActiveEmployees(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userRepo := postgresql.NewUserRepository(setup.DB)

	active := createTestUser(t, ctx, userRepo, "active@example.com", user.RoleEmployee, nil)
	blocked := createTestUser(t, ctx, userRepo, "blocked@example.com", user.RoleEmployee, nil)
	createTestUser(t, ctx, userRepo, "hr@example.com", user.RoleHR, nil)

	require.NoError(t, userRepo.UpdateStatus(ctx, blocked.ID, user.StatusBlocked))

	users, err := userRepo.ListActiveEmployees(ctx, time.Now().Add(time.Minute))

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, active.ID, users[0].ID)
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	userRepo := postgresql.NewUserRepository(setup.DB)

	err := userRepo.Delete(context.Background(), "01890a5d-ac96-774b-bcce-b302099a8057")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
