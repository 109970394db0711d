package dbutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	require.True(t, IsRetryable(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	require.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1205})))
	require.False(t, IsRetryable(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	require.True(t, IsRetryable(errors.New("database is locked")))
	require.False(t, IsRetryable(errors.New("record not found")))
	require.False(t, IsRetryable(nil))
}
