package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// conditions accumulates WHERE clauses and their positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

// add appends a clause. format refers to its argument as $%[1]d, so the same
// argument can appear more than once.
func (c *conditions) add(format string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

// page returns the LIMIT/OFFSET clause for p and the full argument list.
func (c *conditions) page(p pagination.Params) (string, []any) {
	n := len(c.args)
	args := make([]any, 0, n+2)
	args = append(args, c.args...)
	args = append(args, p.Limit, p.Offset())
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func (c *conditions) count(ctx context.Context, q database.Querier, table string) (int64, error) {
	var total int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, c.where())
	if err := q.QueryRow(ctx, query, c.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return total, nil
}

// mapNoRows turns pgx.ErrNoRows into the domain's not-found error.
func mapNoRows(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
