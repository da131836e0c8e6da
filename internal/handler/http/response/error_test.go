package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/payrollconfig"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/timeexception"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	var verrs validator.ValidationErrors
	verrs.Add("reason", "reason is required")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", verrs.Err(), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", timeexception.ErrTimeExceptionNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("failed to get: %w", correction.ErrCorrectionNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"transition", timeexception.ErrInvalidStatusTransition, http.StatusConflict, "CONFLICT"},
		{"not draft", payrollconfig.ErrNotDraft, http.StatusConflict, "CONFLICT"},
		{"self review", correction.ErrSelfReview, http.StatusForbidden, "FORBIDDEN"},
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, StatusFor(tt.err))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	var verrs validator.ValidationErrors
	verrs.Add("grade", "grade is required")

	rec := httptest.NewRecorder()
	HandleError(rec, verrs.Err())

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "grade is required", body.Error.Details["grade"])
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, pagination.NewPage([]string{"a", "b"}, 5, pagination.Params{Page: 1, Limit: 2}))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success    bool            `json:"success"`
		Data       []string        `json:"data"`
		Pagination pagination.Meta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, pagination.Meta{Total: 5, Page: 1, Limit: 2, TotalPages: 3}, body.Pagination)
}
