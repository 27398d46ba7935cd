package worklog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusSubmitted  Status = "SUBMITTED"
	StatusAutoClosed Status = "AUTO_CLOSED"
)

// Fields holds the designation-specific answers of a log, stored as JSONB.
type Fields map[string]string

// Value implements driver.Valuer for database storage
func (f Fields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for database retrieval
func (f *Fields) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = Fields{}
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return errors.New("failed to scan Fields: unsupported type")
}

// Schema lists the fields a designation must fill before submitting.
var Schema = map[user.Designation][]string{
	user.DesignationLA:    {"summary", "site_visits", "properties_shown", "leads_generated"},
	user.DesignationCRE:   {"summary", "calls_made", "walk_ins", "follow_ups"},
	user.DesignationFA:    {"summary", "files_processed", "collections"},
	user.DesignationAE:    {"summary", "visit_type", "client_meetings", "deals_closed"},
	user.DesignationOther: {"summary"},
}

// MissingFields returns the required fields of designation absent or blank in f.
func MissingFields(designation user.Designation, f Fields) []string {
	required, ok := Schema[designation]
	if !ok {
		required = Schema[user.DesignationOther]
	}
	var missing []string
	for _, name := range required {
		if v, ok := f[name]; !ok || v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

type WorkLog struct {
	ID          string
	UserID      string
	WorkDate    time.Time // business-time midnight
	Designation user.Designation
	Status      Status
	Fields      Fields
	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
