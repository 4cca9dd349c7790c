package identifier

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PrefixEmployee = "EMP"
	PrefixPayroll  = "PAY"
	PrefixLeave    = "LEA"
	PrefixUser     = "UR"

	// Length is the fixed size of every stable external id.
	Length = 10
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

var now = time.Now

// stableTimeChars is how many trailing base36 millisecond digits a stable id keeps.
const stableTimeChars = 3

// NewStableID builds prefix + the last 3 base36 digits of unix millis + random
// base36 chars filling the id to Length, upper-cased.
func NewStableID(prefix string) string {
	ts := strconv.FormatInt(now().UnixMilli(), 36)
	if len(ts) < stableTimeChars {
		ts = strings.Repeat("0", stableTimeChars-len(ts)) + ts
	}
	ts = ts[len(ts)-stableTimeChars:]

	random := Length - len(prefix) - stableTimeChars
	if random < 0 {
		random = 0
	}

	return strings.ToUpper(prefix + ts + randomBase36(random))
}

// NewShortID returns prefix followed by the first 7 hex chars of a random uuid.
func NewShortID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:7]
}

func NewEmployeeID() string { return NewStableID(PrefixEmployee) }

func NewPayrollID() string { return NewShortID(PrefixPayroll) }

func NewLeaveID() string { return NewShortID(PrefixLeave) }

// UserIDFor derives the coupled user id by swapping the employee prefix for "UR".
func UserIDFor(employeeID string) string {
	if strings.HasPrefix(employeeID, PrefixEmployee) {
		return PrefixUser + employeeID[len(PrefixEmployee):]
	}
	return PrefixUser + employeeID
}

func randomBase36(n int) string {
	var b strings.Builder
	limit := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(base36[v.Int64()])
	}
	return b.String()
}
