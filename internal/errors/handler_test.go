package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/sales"
	"salespulse/internal/shared/testutil"
	"salespulse/internal/workbook"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	return got
}

func TestErrorToProblem(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/api/sales/kpis", nil)

	valErr := validator.New().Struct(struct {
		Year string `validate:"len=4"`
	}{Year: "25"})
	require.Error(t, valErr)

	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"schema", fmt.Errorf("load: %w", &workbook.SchemaError{Sheet: "data1", Missing: []string{"Meta"}}), http.StatusUnprocessableEntity, TypeSchemaMismatch},
		{"unknown month", &sales.UnknownMonthError{Label: "Enro"}, http.StatusUnprocessableEntity, TypeUnknownMonth},
		{"invalid cell", &workbook.CellError{Sheet: "data1", Row: 3, Column: "Meta", Value: "abc"}, http.StatusUnprocessableEntity, TypeInvalidCell},
		{"sheet missing", fmt.Errorf("%w: meta_fac", workbook.ErrSheetNotFound), http.StatusServiceUnavailable, TypeDataNotFound},
		{"file missing", fmt.Errorf("open: %w", os.ErrNotExist), http.StatusServiceUnavailable, TypeDataNotFound},
		{"validator", valErr, http.StatusBadRequest, TypeValidation},
		{"quarter", fmt.Errorf("%w: %q", sales.ErrInvalidQuarter, "Q5"), http.StatusBadRequest, TypeValidation},
		{"api error", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"app validation", NewAppValidationError("bad criteria", nil), http.StatusBadRequest, TypeValidation},
		{"app storage", NewAppError(ErrTypeStorage, "cannot read", errors.New("io")), http.StatusServiceUnavailable, TypeServiceDown},
		{"app export", NewAppError(ErrTypeExport, "xlsx", nil), http.StatusInternalServerError, TypeExportFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := h.ErrorToProblem(tt.err, r)
			assert.Equal(t, tt.status, pd.Status)
			assert.Equal(t, tt.typ, pd.Type)
			assert.Equal(t, "/api/sales/kpis", pd.Instance)
		})
	}
}

func TestErrorToProblem_Extensions(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/api/clients/sales", nil)

	pd := h.ErrorToProblem(&workbook.SchemaError{Sheet: "fac_cli", Missing: []string{"vta_mayo"}}, r)
	assert.Equal(t, []string{"vta_mayo"}, pd.Extensions["missing"])
	assert.Equal(t, "fac_cli", pd.Extensions["sheet"])

	pd = h.ErrorToProblem(&sales.UnknownMonthError{Label: "Fooember", Column: "vta_fooember"}, r)
	assert.Equal(t, "Fooember", pd.Extensions["label"])
	assert.Equal(t, "vta_fooember", pd.Extensions["column"])

	pd = h.ErrorToProblem(NewAppValidationError("bad", nil).WithContext("field", "year"), r)
	assert.Equal(t, "year", pd.Extensions["field"])
}

func TestHandleError(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/sales/records", nil)
	h.HandleError(w, r, &workbook.SchemaError{Sheet: "data1", Missing: []string{"Facturado"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	got := decodeProblem(t, w)
	assert.Equal(t, TypeSchemaMismatch, got["type"])
	assert.Equal(t, []interface{}{"Facturado"}, got["missing"])
	assert.NotContains(t, got, "stack", "stack traces are only attached to server errors")

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "request failed")
	testutil.AssertLogAttr(t, handler, "problem_type", TypeSchemaMismatch)

	w = httptest.NewRecorder()
	h.HandleError(w, r, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeProblem(t, w), "stack")

	w = httptest.NewRecorder()
	h.HandleError(w, r, nil)
	assert.Equal(t, 0, w.Body.Len())
}

func TestHandlePanic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/sales/kpis", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	got := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, got["type"])
	assert.NotContains(t, got, "panic")
	testutil.AssertLogContains(t, handler, slog.LevelError, "panic recovered")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/sales/kpis", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decodeProblem(t, w)["detail"], "DELETE")
}

func TestErrorHandlerJSON(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.JSON(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusAccepted, map[string]string{"ok": "yes"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, w.Body.String())
}
