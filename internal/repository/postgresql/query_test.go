package postgresql

import (
	"testing"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
)

func TestConditions(t *testing.T) {
	var c conditions
	assert.Empty(t, c.where())

	c.add("status = $%d", "OPEN")
	c.add("(full_name ILIKE $%[1]d OR employee_code ILIKE $%[1]d)", "%ann%")
	assert.Equal(t, "WHERE status = $1 AND (full_name ILIKE $2 OR employee_code ILIKE $2)", c.where())

	limit, args := c.page(pagination.Params{Page: 3, Limit: 20})
	assert.Equal(t, "LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{"OPEN", "%ann%", 20, 40}, args)
	assert.Len(t, c.args, 2)
}

func TestNewID_IsVersion7(t *testing.T) {
	id, err := newID()
	assert.NoError(t, err)
	assert.Equal(t, byte('7'), id[14])
}
