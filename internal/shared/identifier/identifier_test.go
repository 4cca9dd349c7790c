package identifier

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStableID_FixedLengthAndPrefix(t *testing.T) {
	id := NewEmployeeID()

	assert.Len(t, id, Length)
	assert.Regexp(t, regexp.MustCompile(`^EMP[0-9A-Z]{7}$`), id)
}

func TestNewStableID_DistinctWithinOneMillisecond(t *testing.T) {
	orig := now
	fixed := time.UnixMilli(1_760_000_000_000)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		id := NewEmployeeID()
		assert.Len(t, id, Length)
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, 20)
}

func TestNewStableID_KeepsTrailingTimeDigits(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })

	now = func() time.Time { return time.UnixMilli(36*36*36 + 36 + 2) }
	assert.Equal(t, "EMP012", NewStableID("EMP")[:6])

	now = func() time.Time { return time.UnixMilli(0) }
	id := NewStableID("EMP")
	assert.Len(t, id, Length)
	assert.Equal(t, "EMP000", id[:6])
}

func TestNewShortID(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^PAY[0-9a-f]{7}$`), NewPayrollID())
	assert.Regexp(t, regexp.MustCompile(`^LEA[0-9a-f]{7}$`), NewLeaveID())
	assert.NotEqual(t, NewPayrollID(), NewPayrollID())
}

func TestUserIDFor(t *testing.T) {
	assert.Equal(t, "URLX2K9A01", UserIDFor("EMPLX2K9A01"))
	assert.Equal(t, "UR12345", UserIDFor("12345"))
}
