package pgerrors

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	wrap := func(code pq.ErrorCode) error {
		return fmt.Errorf("insert reservation: %w", &pq.Error{Code: code})
	}

	assert.True(t, IsOverlapViolation(wrap(CodeExclusionViolation)))
	assert.True(t, IsOverlapViolation(wrap(CodeUniqueViolation)))
	assert.False(t, IsOverlapViolation(wrap(CodeSerializationFailure)))

	assert.True(t, IsRetryable(wrap(CodeSerializationFailure)))
	assert.True(t, IsRetryable(wrap(CodeDeadlockDetected)))
	assert.False(t, IsRetryable(wrap(CodeExclusionViolation)))

	assert.True(t, IsUnavailable(wrap("08006")))
	assert.True(t, IsUnavailable(wrap(CodeCannotConnectNow)))
	assert.True(t, IsUnavailable(fmt.Errorf("query: %w", driver.ErrBadConn)))
	assert.False(t, IsUnavailable(wrap(CodeUniqueViolation)))

	assert.Equal(t, pq.ErrorCode(""), Code(errors.New("plain")))
}
