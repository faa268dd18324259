package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appdatasets "github.com/bryanwahyu/datalens/internal/application/datasets"
	appinsights "github.com/bryanwahyu/datalens/internal/application/insights"
	domai "github.com/bryanwahyu/datalens/internal/domain/ai"
	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/tabular"
	"github.com/bryanwahyu/datalens/internal/infra/tabular/csvio"
	"github.com/bryanwahyu/datalens/internal/middleware"
)

// maxUploadBytes caps in-memory multipart parsing; larger parts spill
// to disk.
const maxUploadBytes = 64 << 20

var errBadRequest = errors.New("bad request")

type Router struct {
	datasetsSvc *appdatasets.Service
	insightsSvc *appinsights.Service
}

func NewRouter(datasetsSvc *appdatasets.Service, insightsSvc *appinsights.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{datasetsSvc: datasetsSvc, insightsSvc: insightsSvc}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/datasets", r.wrap(r.handleIngest))
		rt.Get("/datasets", r.wrap(r.handleList))
		rt.Get("/datasets/latest", r.wrap(r.handleLatest))
		rt.Get("/datasets/{id}", r.wrap(r.handleGet))
		rt.Get("/datasets/{id}/errors", r.wrap(r.handleErrors))
		rt.Get("/datasets/{id}/types", r.wrap(r.handleTypes))
		rt.Get("/datasets/{id}/insight", r.wrap(r.handleLatestInsight))
		rt.Post("/datasets/{id}/stats", r.wrap(r.handleStats))
		rt.Post("/datasets/{id}/anomalies", r.wrap(r.handleAnomalies))
		rt.Post("/datasets/{id}/missing", r.wrap(r.handleMissing))
		rt.Post("/datasets/{id}/filter", r.wrap(r.handleFilter))
		rt.Post("/datasets/{id}/aggregate", r.wrap(r.handleAggregate))
		rt.Post("/ask", r.wrap(r.handleAsk))
		rt.Get("/ask", r.wrap(r.handleAskHistory))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, errBadRequest),
				errors.Is(err, tabular.ErrUnknownOperator),
				errors.Is(err, appdatasets.ErrUnknownColumn),
				errors.Is(err, csvio.ErrEmpty):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// tenant ambil + validasi tenant dari URL dan cocokkan dengan API key
func (r *Router) tenant(req *http.Request) (string, error) {
	t := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(t); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if auth := middleware.GetTenantFromContext(req.Context()); auth != "" && auth != t {
		return "", fmt.Errorf("%w: tenant mismatch", errBadRequest)
	}
	return t, nil
}

func (r *Router) datasetID(req *http.Request) (dataset.DatasetID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateDatasetID(id); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return dataset.DatasetID(id), nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/datasets
// multipart form: file=<csv>, name=<optional display name>
func (r *Router) handleIngest(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file part is required", errBadRequest)
	}
	defer file.Close()

	name := middleware.SanitizeString(req.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	d, err := r.datasetsSvc.Ingest(req.Context(), appdatasets.IngestCommand{
		TenantID: tenant,
		Name:     name,
		FileName: header.Filename,
		Body:     file,
	})
	if err != nil {
		middleware.IncrementIngestsFailed()
		return err
	}
	middleware.IncrementDatasets()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(d)
}

// GET /v1/{tenant}/datasets?page=&page_size=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	res, err := r.datasetsSvc.Paginate(req.Context(), tenant, middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

// GET /v1/{tenant}/datasets/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.datasetsSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/datasets/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	d, err := r.datasetsSvc.Get(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	return writeJSON(w, d)
}

// GET /v1/{tenant}/datasets/{id}/errors?limit=20
func (r *Router) handleErrors(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.datasetsSvc.ListErrors(req.Context(), tenant, id, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/datasets/{id}/types?columns=a,b
func (r *Router) handleTypes(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	types, err := r.datasetsSvc.Types(req.Context(), tenant, id)
	if err != nil {
		return err
	}
	if raw := req.URL.Query().Get("columns"); raw != "" {
		subset := make(map[string]tabular.ColumnType)
		for _, col := range strings.Split(raw, ",") {
			col = strings.TrimSpace(col)
			if t, ok := types[col]; ok {
				subset[col] = t
			}
		}
		types = subset
	}
	return writeJSON(w, types)
}

// POST /v1/{tenant}/datasets/{id}/stats
// Body: {"column": "<name>"}
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	var body struct {
		Column string `json:"column"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateColumnName(body.Column); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	summary, err := r.datasetsSvc.ColumnStats(req.Context(), tenant, id, body.Column)
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

// POST /v1/{tenant}/datasets/{id}/anomalies
// Body: {"column": "<name>"}
func (r *Router) handleAnomalies(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	var body struct {
		Column string `json:"column"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateColumnName(body.Column); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	list, err := r.datasetsSvc.Anomalies(req.Context(), tenant, id, body.Column)
	if err != nil {
		return err
	}
	if list == nil {
		list = []tabular.Anomaly{}
	}
	return writeJSON(w, list)
}

// POST /v1/{tenant}/datasets/{id}/missing
// Body: {"columns": ["a", "b"]}; empty means every column
func (r *Router) handleMissing(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	var body struct {
		Columns []string `json:"columns"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	report, err := r.datasetsSvc.Missing(req.Context(), tenant, id, body.Columns)
	if err != nil {
		return err
	}
	return writeJSON(w, report)
}

// POST /v1/{tenant}/datasets/{id}/filter
// Body: {"filters": [{"column": "x", "operator": "greater", "value": 5}]}
func (r *Router) handleFilter(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	var body struct {
		Filters []tabular.Filter `json:"filters"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	rows, err := r.datasetsSvc.Filter(req.Context(), tenant, id, body.Filters)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []tabular.Row{}
	}
	return writeJSON(w, rows)
}

// POST /v1/{tenant}/datasets/{id}/aggregate
// Body: {"group_by": "region", "column": "sales", "operation": "sum"}
func (r *Router) handleAggregate(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	var body struct {
		GroupBy   string `json:"group_by"`
		Column    string `json:"column"`
		Operation string `json:"operation"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateColumnName(body.GroupBy); err != nil {
		return fmt.Errorf("%w: group_by: %v", errBadRequest, err)
	}
	if err := middleware.ValidateColumnName(body.Column); err != nil {
		return fmt.Errorf("%w: column: %v", errBadRequest, err)
	}

	aggs, err := r.datasetsSvc.Aggregate(req.Context(), tenant, id, body.GroupBy, body.Column, tabular.AggregateOp(body.Operation))
	if err != nil {
		return err
	}
	return writeJSON(w, aggs)
}

// POST /v1/{tenant}/ask
// Body: {"dataset_id": "<id>", "question": "<text>"}
func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	var body struct {
		DatasetID string `json:"dataset_id"`
		Question  string `json:"question"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateDatasetID(body.DatasetID); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateQuestion(body.Question); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	in, err := r.insightsSvc.Ask(req.Context(), appinsights.AskCommand{
		TenantID:  tenant,
		DatasetID: body.DatasetID,
		Question:  middleware.SanitizeString(body.Question),
	})
	if err != nil {
		return err
	}
	middleware.IncrementQuestions()
	return writeJSON(w, in)
}

// GET /v1/{tenant}/ask?page=&page_size=
func (r *Router) handleAskHistory(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.insightsSvc.History(req.Context(), tenant, middleware.ValidatePage(page), middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// GET /v1/{tenant}/datasets/{id}/insight
func (r *Router) handleLatestInsight(w http.ResponseWriter, req *http.Request) error {
	tenant, err := r.tenant(req)
	if err != nil {
		return err
	}
	id, err := r.datasetID(req)
	if err != nil {
		return err
	}
	in, err := r.insightsSvc.LatestByDataset(req.Context(), tenant, string(id))
	if err != nil {
		return err
	}
	return writeJSON(w, in)
}
