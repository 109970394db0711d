package dbutil

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsRetryable reports whether err is a transient transaction conflict, after
// which the whole transaction may be executed again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDeadlock || mysqlErr.Number == mysqlLockWaitTimeout
	}

	// SQLite only reports these through the message.
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
