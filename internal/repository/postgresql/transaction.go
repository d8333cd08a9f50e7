package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
)

// GetQuerier returns either the transaction carried by ctx or the pool.
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

// paginate appends LIMIT/OFFSET placeholders starting at argIndex. A limit <= 0 returns every row.
func paginate(query string, args []interface{}, argIndex, page, limit int) (string, []interface{}) {
	if limit <= 0 {
		return query, args
	}
	if page < 1 {
		page = 1
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	return query, append(args, limit, (page-1)*limit)
}
