package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValidationFailed, "test message")

	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, "test message", err.Message)
	assert.Equal(t, SeverityError, err.Severity)
	assert.False(t, err.Recoverable)
	assert.NotNil(t, err.Context)
	assert.NotZero(t, err.Timestamp)
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, ErrCodeSQLExecution, "query failed")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeSQLExecution, err.Code)
	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "underlying failure")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeSQLExecution, "should be nil"))
}

func TestWrapInheritsContext(t *testing.T) {
	inner := New(ErrCodeCSVFormat, "bad row").WithContext("file", "orders.csv")
	outer := Wrap(inner, ErrCodeCSVRead, "load failed")

	assert.Equal(t, "orders.csv", outer.Context["file"])
}

func TestWithContextAndSuggestions(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad value").
		WithContext("field", "database.path").
		WithSuggestions("Run 'salescope setup'")

	assert.Equal(t, "database.path", err.Context["field"])
	assert.Contains(t, err.Error(), "Suggestions:")
	assert.Contains(t, err.Error(), "Run 'salescope setup'")
}

func TestSQLErrorLockedIsRecoverable(t *testing.T) {
	cause := fmt.Errorf("database is locked")
	err := SQLError("insert failed", "INSERT INTO orders VALUES (?)", cause)

	assert.Equal(t, ErrCodeDatabaseLocked, err.Code)
	assert.True(t, IsRecoverable(err))
}

func TestSQLErrorMissingTable(t *testing.T) {
	cause := fmt.Errorf("no such table: orders")
	err := SQLError("query failed", "SELECT * FROM orders", cause)

	assert.Equal(t, ErrCodeSQLNoResults, err.Code)
	assert.False(t, IsRecoverable(err))
}

func TestSQLErrorTruncatesQuery(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "SELECT * FROM orders; "
	}
	err := SQLError("query failed", long, fmt.Errorf("boom"))

	query, ok := err.Context["query"].(string)
	require.True(t, ok)
	assert.LessOrEqual(t, len(query), 203) // 200 chars plus ellipsis
}

func TestDateError(t *testing.T) {
	err := DateError("order_date", "13/45/2006")

	assert.Equal(t, ErrCodeDateFormat, err.Code)
	assert.Contains(t, err.Message, "order_date")
	assert.Contains(t, err.Message, "13/45/2006")
	assert.Equal(t, "order_date", err.Context["field"])
}

func TestValidationErrorIsRecoverableWarning(t *testing.T) {
	err := ValidationError("customers", -1, "must be positive")

	assert.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, SeverityWarning, err.Severity)
	assert.True(t, err.Recoverable)
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"app error", New(ErrCodeCSVRead, "x"), ErrCodeCSVRead},
		{"wrapped app error", fmt.Errorf("outer: %w", New(ErrCodeTimeout, "x")), ErrCodeTimeout},
		{"plain error", fmt.Errorf("plain"), ErrCodeInternal},
		{"nil-ish", fmt.Errorf(""), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCode(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	a := New(ErrCodeCSVRead, "first")
	b := New(ErrCodeCSVRead, "second")
	c := New(ErrCodeCSVWrite, "third")

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(fmt.Errorf("not app error")))
}
