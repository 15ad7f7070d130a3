package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nsexbrl/internal/domain"
	logpkg "github.com/kailas-cloud/nsexbrl/internal/logger"
	gen "github.com/kailas-cloud/nsexbrl/internal/transport/generated"
	extractuc "github.com/kailas-cloud/nsexbrl/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/nsexbrl/internal/usecase/health"
)

const defaultMaxBodyBytes = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	gen.Unimplemented
	extract         *extractuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	archiveRoot     string
	allowLocalPaths bool
	maxBodyBytes    int64
	errorHandlers   []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(extract *extractuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		extract:      extract,
		health:       health,
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInputNotFound, http.StatusNotFound, gen.ErrorResponseCodeInputNotFound),
		sentinelHandler(domain.ErrSchemaUndetectable,
			http.StatusUnprocessableEntity, gen.ErrorResponseCodeSchemaUndetectable),
		sentinelHandler(domain.ErrDecodeFailure, http.StatusUnprocessableEntity, gen.ErrorResponseCodeDecodeFailure),
		sentinelHandler(domain.ErrValidationEmpty, http.StatusUnprocessableEntity, gen.ErrorResponseCodeValidationEmpty),
		sentinelHandler(domain.ErrEngine, http.StatusUnprocessableEntity, gen.ErrorResponseCodeEngineFailure),
		sentinelHandler(domain.ErrSchemaUnresolvable,
			http.StatusFailedDependency, gen.ErrorResponseCodeSchemaUnresolvable),
		sentinelHandler(domain.ErrStaging, http.StatusInternalServerError, gen.ErrorResponseCodeStagingFailure),
	}
	return s
}

// WithLocalPaths enables POST /api/v1/facts/file.
func (s *Server) WithLocalPaths(allow bool) *Server {
	s.allowLocalPaths = allow
	return s
}

// WithArchiveRoot sets the root that response paths are reported relative to.
func (s *Server) WithArchiveRoot(root string) *Server {
	s.archiveRoot = root
	return s
}

// WithMaxBodyBytes caps uploaded instance size. Non-positive keeps the default.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// ExtractFacts handles POST /api/v1/facts.
func (s *Server) ExtractFacts(w http.ResponseWriter, r *http.Request, params gen.ExtractFactsParams) {
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, gen.ErrorResponseCodePayloadTooLarge,
				"instance document exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(content) == 0 {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Request body must be an XBRL instance")
		return
	}

	name := ""
	if params.Name != nil {
		name = *params.Name
	}

	res, err := s.extract.Parse(r.Context(), domain.NewInstanceDocument(name, content))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.factsToGen(res, derefBool(params.IncludeItems)))
}

// ExtractFactsFromFile handles POST /api/v1/facts/file.
func (s *Server) ExtractFactsFromFile(w http.ResponseWriter, r *http.Request, params gen.ExtractFactsFromFileParams) {
	if !s.allowLocalPaths {
		writeError(w, http.StatusForbidden, gen.ErrorResponseCodeForbidden, "local path extraction is disabled")
		return
	}

	var req gen.ExtractFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "path is required")
		return
	}

	res, err := s.extract.ParseFile(r.Context(), req.Path)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, s.factsToGen(res, derefBool(params.IncludeItems)))
}

// LocateSchema handles GET /api/v1/taxonomy/schemas/{ref}.
func (s *Server) LocateSchema(w http.ResponseWriter, r *http.Request, ref gen.SchemaRef) {
	res, err := s.extract.Locate(r.Context(), ref)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	candidates := make([]string, len(res.Candidates))
	for i, c := range res.Candidates {
		candidates[i] = s.archivePath(c)
	}
	writeJSON(w, http.StatusOK, gen.LocateResponse{
		Ref:        res.Ref,
		Path:       s.archivePath(res.Path),
		Candidates: candidates,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	resp := gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	}
	if report.Schemas > 0 {
		n := report.Schemas
		resp.Schemas = &n
	}
	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) factsToGen(res extractuc.Result, includeItems bool) gen.FactsResponse {
	resp := gen.FactsResponse{
		SchemaRef:  res.SchemaRef,
		SchemaPath: s.archivePath(res.SchemaPath),
		FactCount:  res.Facts.Len(),
		Cached:     res.Cached,
		Facts:      res.Facts.Map(),
	}
	if includeItems {
		facts := res.Facts.Facts()
		items := make([]gen.FactItem, len(facts))
		for i, f := range facts {
			items[i] = gen.FactItem{Label: f.Label, Qname: f.QName, Value: f.Value}
		}
		resp.Items = &items
	}
	return resp
}

// archivePath renders an archive file relative to the archive root, slash-separated.
// Paths outside the root, or any path when no root is set, keep only their base name.
func (s *Server) archivePath(p string) string {
	if s.archiveRoot != "" {
		rel, err := filepath.Rel(s.archiveRoot, p)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(p)
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage renders a pipeline error for the client.
// Causes are dropped since they carry server paths; the input path is kept for not-found errors.
func safeDomainMessage(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		return "internal error"
	}
	safe := domain.Error{Kind: de.Kind, Stage: de.Stage, Ref: de.Ref}
	if de.Kind == domain.KindInputNotFound {
		safe.Path = de.Path
	}
	return safe.Error()
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		resp := gen.ErrorResponse{Code: code, Message: msg}
		var de *domain.Error
		if errors.As(err, &de) && de.Stage != domain.StageUnresolved {
			stage := de.Stage.String()
			resp.Stage = &stage
		}
		writeJSON(w, status, resp)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Stringer("kind", domain.KindOf(err)), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}
