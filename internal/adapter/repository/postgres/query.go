package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// conditions collects WHERE clauses with positional arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page appends LIMIT and OFFSET when limit is positive.
func (c *conditions) page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	c.args = append(c.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(c.args)-1, len(c.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func uuidArray(ids []uuid.UUID) interface{} {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.Array(out)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q in array: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func exists(ctx context.Context, db *sql.DB, table string, id uuid.UUID) (bool, error) {
	var found bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&found)
	return found, err
}
