package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/validator"
)

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.DebugContext(r.Context(), "request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// query collects typed query parameters and their parse errors.
type query struct {
	r    *http.Request
	errs validator.ValidationErrors
}

func newQuery(r *http.Request) *query {
	return &query{r: r}
}

func (q *query) str(key string) *string {
	val := q.r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

func (q *query) num(key string) int {
	val := q.r.URL.Query().Get(key)
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		q.errs.Add(key, key+" must be a number")
		return 0
	}
	return n
}

func (q *query) flag(key string) *bool {
	val := q.r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		q.errs.Add(key, key+" must be true or false")
		return nil
	}
	return &b
}

func (q *query) page() pagination.Params {
	return pagination.Params{Page: q.num("page"), Limit: q.num("limit")}
}

// done answers 400 when any parameter failed to parse.
func (q *query) done(w http.ResponseWriter) bool {
	if err := q.errs.Err(); err != nil {
		response.HandleError(w, err)
		return false
	}
	return true
}
