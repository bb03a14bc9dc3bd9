package sqlite

import (
	"database/sql/driver"
	"strings"

	msqlite "modernc.org/sqlite"
)

// CaseFoldFunc lowercases text with full Unicode case mapping. SQLite's LIKE
// only folds ASCII, so searches compare casefold(column) against
// casefold(pattern).
const CaseFoldFunc = "casefold"

func init() {
	msqlite.MustRegisterDeterministicScalarFunction(CaseFoldFunc, 1, casefold)
}

func casefold(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		// NULL and non-text values pass through.
		return v, nil
	}
}
