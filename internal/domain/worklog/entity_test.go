package worklog

import (
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFields(t *testing.T) {
	f := Fields{"summary": "met two clients", "calls_made": "14", "walk_ins": ""}

	assert.Equal(t, []string{"walk_ins", "follow_ups"}, MissingFields(user.DesignationCRE, f))
	assert.Empty(t, MissingFields(user.DesignationOther, f))
	assert.Empty(t, MissingFields(user.Designation("UNKNOWN"), f))
	assert.Equal(t, []string{"summary"}, MissingFields(user.DesignationOther, Fields{}))
}

func TestFields_ScanValue(t *testing.T) {
	f := Fields{"summary": "ok"}
	v, err := f.Value()
	require.NoError(t, err)

	var out Fields
	require.NoError(t, out.Scan(v))
	assert.Equal(t, f, out)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
	assert.Error(t, out.Scan(3.5))
}
