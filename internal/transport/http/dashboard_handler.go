package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/middleware"
	"salespulse/internal/sales"
)

// DashboardHandler serves the sales and client views with RFC 7807 errors.
type DashboardHandler struct {
	service      DashboardServiceInterface
	exporter     *exporter.Exporter
	validation   *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	service DashboardServiceInterface,
	exp *exporter.Exporter,
	validation *middleware.ValidationMiddleware,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *DashboardHandler {
	if exp == nil {
		exp = exporter.New(logger)
	}
	if validation == nil {
		validation = middleware.NewValidationMiddleware(logger, errorHandler)
	}
	return &DashboardHandler{
		service:      service,
		exporter:     exp,
		validation:   validation,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes, to be mounted under /api.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/sales", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/options", h.GetOptions)
		r.Get("/records", h.GetRecords)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/series", h.GetSeries)
		r.Get("/quarters", h.GetQuarters)
		r.Get("/summary", h.GetSummary)
	})

	r.Route("/clients", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/sales", h.GetClientSales)
		r.Get("/key-accounts", h.GetKeyAccounts)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/sales.{format}", h.ExportSales)
		r.Get("/clients.{format}", h.ExportClients)
	})

	r.Route("/workbook", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/sheets", h.GetSheets)
		r.Post("/reload", h.Reload)
	})

	return r
}

// periodCriteria decodes and validates the period filters of r.
func (h *DashboardHandler) periodCriteria(r *http.Request) (sales.PeriodCriteria, error) {
	q := decodePeriodQuery(r.URL.Query())
	if err := h.validation.ValidateStruct(q); err != nil {
		return sales.PeriodCriteria{}, err
	}
	return q.criteria(), nil
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, view string, err error) {
	h.logger.ErrorContext(r.Context(), "dashboard request failed",
		slog.String("view", view),
		slog.String("error", err.Error()),
		slog.String("request_id", chimw.GetReqID(r.Context())),
	)
	h.errorHandler.HandleError(w, r, err)
}

// GetOptions handles GET /api/sales/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "options")

	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.fail(w, r, "options", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"variant": h.service.Variant(),
		"data":    opts,
	})
}

// GetRecords handles GET /api/sales/records
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "records")

	c, err := h.periodCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	t, err := h.service.Records(r.Context(), c)
	if err != nil {
		h.fail(w, r, "records", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":      "success",
		"sheet":       t.Sheet,
		"has_backlog": t.HasBacklog,
		"data":        t.Records,
		"count":       t.Len(),
	})
}

// GetKPIs handles GET /api/sales/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "kpis")

	c, err := h.periodCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	k, err := h.service.KPIs(r.Context(), c)
	if err != nil {
		h.fail(w, r, "kpis", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   k,
	})
}

// GetSeries handles GET /api/sales/series
func (h *DashboardHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "series")

	c, err := h.periodCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	points, err := h.service.Series(r.Context(), c)
	if err != nil {
		h.fail(w, r, "series", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
	})
}

// GetQuarters handles GET /api/sales/quarters
func (h *DashboardHandler) GetQuarters(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "quarters")

	c, err := h.periodCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	totals, err := h.service.Quarters(r.Context(), c)
	if err != nil {
		h.fail(w, r, "quarters", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   totals,
		"count":  len(totals),
	})
}

// GetSummary handles GET /api/sales/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "summary")

	c, err := h.periodCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), c)
	if err != nil {
		h.fail(w, r, "summary", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetClientSales handles GET /api/clients/sales
func (h *DashboardHandler) GetClientSales(w http.ResponseWriter, r *http.Request) {
	middleware.RecordDashboardQuery(r.Context(), "client_sales")

	q, err := decodeClientQuery(r.URL.Query())
	if err == nil {
		err = h.validation.ValidateStruct(q)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.ClientSales(r.Context(), q.query())
	if err != nil {
		h.fail(w, r, "client_sales", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
		"count":  len(view.Rows),
	})
}

// GetKeyAccounts handles GET /api/clients/key-accounts
func (h *DashboardHandler) GetKeyAccounts(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.KeyAccounts(r.Context())
	if err != nil {
		h.fail(w, r, "key_accounts", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   names,
		"count":  len(names),
	})
}

// GetSheets handles GET /api/workbook/sheets
func (h *DashboardHandler) GetSheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.service.Sheets(r.Context())
	if err != nil {
		h.fail(w, r, "sheets", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   sheets,
		"count":  len(sheets),
	})
}

// Reload handles POST /api/workbook/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	middleware.RecordReload(r.Context())

	res, err := h.service.Reload(r.Context())
	if err != nil {
		h.fail(w, r, "reload", err)
		return
	}

	h.logger.InfoContext(r.Context(), "workbook cache reloaded",
		slog.String("source", res.Source),
		slog.Int("records", res.Records),
		slog.String("request_id", chimw.GetReqID(r.Context())),
	)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   res,
	})
}

// ExportSales handles GET /api/export/sales.{format}
func (h *DashboardHandler) ExportSales(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	c, err := h.periodCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	t, err := h.service.Records(r.Context(), c)
	if err != nil {
		middleware.RecordExport(r.Context(), "sales", string(format), false)
		h.fail(w, r, "export_sales", err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Sales(&buf, format, t.Records); err != nil {
		middleware.RecordExport(r.Context(), "sales", string(format), false)
		h.fail(w, r, "export_sales", apierrors.ExportError(string(format), err))
		return
	}

	middleware.RecordExport(r.Context(), "sales", string(format), true)
	h.sendFile(w, "ventas", format, buf.Bytes())
}

// ExportClients handles GET /api/export/clients.{format}
func (h *DashboardHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	q, err := decodeClientQuery(r.URL.Query())
	if err == nil {
		err = h.validation.ValidateStruct(q)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.ClientSales(r.Context(), q.query())
	if err != nil {
		middleware.RecordExport(r.Context(), "clients", string(format), false)
		h.fail(w, r, "export_clients", err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Clients(&buf, format, view.Rows); err != nil {
		middleware.RecordExport(r.Context(), "clients", string(format), false)
		h.fail(w, r, "export_clients", apierrors.ExportError(string(format), err))
		return
	}

	middleware.RecordExport(r.Context(), "clients", string(format), true)
	h.sendFile(w, "ventas_clientes", format, buf.Bytes())
}

func (h *DashboardHandler) sendFile(w http.ResponseWriter, base string, format exporter.Format, data []byte) {
	name := fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405"), format.Ext())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
