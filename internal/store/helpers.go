package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// DetectDSNType classifies a DSN as "postgres" or "sqlite3" so the
// entrypoint can pick a driver without a separate flag.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// scanIDs drains a single-column id query.
func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id failed: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session ids failed: %w", err)
	}
	return ids, nil
}
