package user

import "fmt"

// Scope is the set of users whose records an actor may see or review.
// Every listing and approval path resolves it once through ResolveScope.
type Scope struct {
	all         bool
	selfID      string
	reportsTo   string
	designation Designation
}

func ResolveScope(actor Actor) Scope {
	s := Scope{selfID: actor.ID}
	switch actor.Role {
	case RoleAdmin, RoleHR:
		s.all = true
	case RoleBusinessHead:
		s.reportsTo = actor.ID
	case RoleAEManager:
		s.designation = DesignationAE
	}
	return s
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool {
	return s.all
}

func (s Scope) Allows(owner User) bool {
	if s.all || owner.ID == s.selfID {
		return true
	}
	if s.reportsTo != "" && owner.ReportingBhID != nil && *owner.ReportingBhID == s.reportsTo {
		return true
	}
	return s.designation != "" && owner.Designation == s.designation
}

// Filter renders the scope as a SQL predicate over the users table aliased as
// alias. Placeholders start at $argIndex; the returned args fill them in order.
func (s Scope) Filter(alias string, argIndex int) (string, []any) {
	if s.all {
		return "TRUE", nil
	}
	switch {
	case s.reportsTo != "":
		return fmt.Sprintf("(%[1]s.id = $%[2]d OR %[1]s.reporting_bh_id = $%[3]d)", alias, argIndex, argIndex+1),
			[]any{s.selfID, s.reportsTo}
	case s.designation != "":
		return fmt.Sprintf("(%[1]s.id = $%[2]d OR %[1]s.designation = $%[3]d)", alias, argIndex, argIndex+1),
			[]any{s.selfID, string(s.designation)}
	default:
		return fmt.Sprintf("%s.id = $%d", alias, argIndex), []any{s.selfID}
	}
}
