package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/history"
	"github.com/anicoll/traci-dashboard/internal/pkg/model"
	"github.com/anicoll/traci-dashboard/internal/pkg/presenter"
	"github.com/anicoll/traci-dashboard/internal/pkg/store"
	"github.com/anicoll/traci-dashboard/internal/pkg/traci"
	"github.com/anicoll/traci-dashboard/pkg/api"
)

var _ api.ServerInterface = (*server)(nil)

//go:embed templates/*.html
var templates embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"reading": presenter.FormatReading,
	"stamp": func(t time.Time) string {
		return t.Format(store.TimestampLayout)
	},
}).ParseFS(templates, "templates/dashboard.html"))

const (
	chartWidth  = 800
	chartHeight = 240

	archiveWindow = 7 * 24 * time.Hour
)

type historyService interface {
	Refresh(ctx context.Context) (history.Result, error)
	History(ctx context.Context) (model.Records, error)
}

// Archive serves readings older than the rolling history window.
type Archive interface {
	GetReadings(ctx context.Context, from, to time.Time) (model.Records, error)
}

type server struct {
	chi.Router
	history  historyService
	archive  Archive
	tailSize int
	loc      *time.Location
	logger   *zap.Logger
}

// New returns the dashboard handler. archive may be nil when no archive is
// configured.
func New(h historyService, a Archive, tailSize int, loc *time.Location) http.Handler {
	s := &server{
		Router:   chi.NewMux(),
		history:  h,
		archive:  a,
		tailSize: tailSize,
		loc:      loc,
		logger:   zap.L(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.Use(middleware.Recoverer)
	s.Use(LoggingMiddleware)

	s.Get("/", s.Dashboard)
	s.Post("/refresh", s.PostRefreshForm)
	s.Get("/api/openapi.json", s.OpenAPI)

	api.HandlerWithOptions(s, api.ChiServerOptions{
		BaseRouter: s.Router,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			handleError(w, &badRequestError{err})
		},
	})
}

func (s *server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Result: "ok"})
}

// OpenAPI serves the document the JSON routes are generated from.
func (s *server) OpenAPI(w http.ResponseWriter, r *http.Request) {
	swagger, err := api.GetSwagger()
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, swagger)
}

// Dashboard banners are picked by status code so links cannot inject text.
const (
	statusRefreshed   = "refreshed"
	statusFetchFailed = "fetch_failed"
	statusFailed      = "refresh_failed"
)

type banner struct {
	Error   bool
	Message string
}

func bannerFor(q url.Values) *banner {
	switch q.Get("status") {
	case statusRefreshed:
		added, _ := strconv.Atoi(q.Get("added"))
		return &banner{Message: "History updated: " + strconv.Itoa(max(added, 0)) + " new readings."}
	case statusFetchFailed:
		return &banner{Error: true, Message: "Refresh failed: the sensor listing could not be fetched."}
	case statusFailed:
		return &banner{Error: true, Message: "Refresh failed. See the server log for details."}
	}
	return nil
}

type dashboardPage struct {
	View     presenter.View
	Fields   []model.Field
	Polyline string
	Width    int
	Height   int
	Banner   *banner
}

func (s *server) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.view(r.Context(), r.URL.Query().Get("field"))
	if err != nil {
		handleError(w, err)
		return
	}
	page := dashboardPage{
		View:     view,
		Fields:   model.Fields,
		Polyline: view.Polyline(chartWidth, chartHeight),
		Width:    chartWidth,
		Height:   chartHeight,
		Banner:   bannerFor(r.URL.Query()),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, page); err != nil {
		s.logger.Error("failed to render dashboard", zap.Error(err))
	}
}

func (s *server) GetHistory(w http.ResponseWriter, r *http.Request, params api.GetHistoryParams) {
	field := ""
	if params.Field != nil {
		field = string(*params.Field)
	}
	view, err := s.view(r.Context(), field)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) view(ctx context.Context, fieldName string) (presenter.View, error) {
	field := model.Temperature
	if fieldName != "" {
		var err error
		if field, err = model.ParseField(fieldName); err != nil {
			return presenter.View{}, &badRequestError{err}
		}
	}
	records, err := s.history.History(ctx)
	if err != nil {
		return presenter.View{}, err
	}
	return presenter.Build(records, field, s.tailSize), nil
}

func (s *server) PostRefresh(w http.ResponseWriter, r *http.Request) {
	res, err := s.history.Refresh(r.Context())
	if err != nil {
		s.logger.Error("refresh failed", zap.Error(err))
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PostRefreshForm backs the dashboard button and redirects back to it.
func (s *server) PostRefreshForm(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	if field, err := model.ParseField(r.FormValue("field")); err == nil {
		q.Set("field", field.String())
	}
	res, err := s.history.Refresh(r.Context())
	var fetchErr *traci.FetchError
	switch {
	case errors.As(err, &fetchErr):
		s.logger.Error("refresh failed", zap.Error(err))
		q.Set("status", statusFetchFailed)
	case err != nil:
		s.logger.Error("refresh failed", zap.Error(err))
		q.Set("status", statusFailed)
	default:
		q.Set("status", statusRefreshed)
		q.Set("added", strconv.Itoa(res.Added))
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *server) GetArchive(w http.ResponseWriter, r *http.Request, params api.GetArchiveParams) {
	if s.archive == nil {
		writeJSON(w, http.StatusNotFound, api.Error{Error: "no archive configured"})
		return
	}
	to := time.Now()
	from := to.Add(-archiveWindow)
	var err error
	if params.From != nil {
		if from, err = time.ParseInLocation(store.TimestampLayout, *params.From, s.loc); err != nil {
			handleError(w, &badRequestError{err})
			return
		}
	}
	if params.To != nil {
		if to, err = time.ParseInLocation(store.TimestampLayout, *params.To, s.loc); err != nil {
			handleError(w, &badRequestError{err})
			return
		}
	}
	records, err := s.archive.GetReadings(r.Context(), from, to)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return e.err.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.err
}

func handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var badRequest *badRequestError
	var fetchErr *traci.FetchError
	switch {
	case errors.As(err, &badRequest):
		status = http.StatusBadRequest
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, api.Error{Error: err.Error()})
}

// writeJSON encodes v before touching the response, so an encoding failure
// still yields a 500 rather than an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(api.Error{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
