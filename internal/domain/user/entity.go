package user

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleEmployee     Role = "EMPLOYEE"
	RoleHR           Role = "HR"
	RoleBusinessHead Role = "BUSINESS_HEAD"
	RoleAEManager    Role = "AE_MANAGER"
	RoleAdmin        Role = "ADMIN"
)

var Roles = []Role{RoleEmployee, RoleHR, RoleBusinessHead, RoleAEManager, RoleAdmin}

func (r Role) IsValid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// IsAdminTier checks if role has HR-level authority
func (r Role) IsAdminTier() bool {
	return r == RoleHR || r == RoleAdmin
}

// IsBHTier checks if role reviews at the business head layer
func (r Role) IsBHTier() bool {
	return r == RoleBusinessHead || r == RoleAEManager
}

// Designation is a job-function tag, independent of role.
type Designation string

const (
	DesignationLA    Designation = "LA"
	DesignationCRE   Designation = "CRE"
	DesignationFA    Designation = "FA"
	DesignationAE    Designation = "AE"
	DesignationOther Designation = "OTHER"
)

var Designations = []Designation{DesignationLA, DesignationCRE, DesignationFA, DesignationAE, DesignationOther}

func (d Designation) IsValid() bool {
	for _, v := range Designations {
		if v == d {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusBlocked
}

type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  *string
	Phone         *string
	Role          Role
	Designation   Designation
	Status        Status
	ReportingBhID *string

	AllocatedSalary              decimal.Decimal
	SalaryDeductions             decimal.Decimal // legacy flat deduction
	SalaryDeductionBreakdown     DeductionBreakdown
	SalaryViewEnabled            bool
	TimeShortageDeductionEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

// Actor is the authenticated caller as carried in the access token.
type Actor struct {
	ID          string
	Role        Role
	Designation Designation
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
