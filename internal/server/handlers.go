package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-slicerform/pkg/openapi"
	"github.com/goliatone/go-slicerform/pkg/orchestrator"
	"github.com/goliatone/go-slicerform/pkg/schema"
	"github.com/goliatone/go-slicerform/pkg/spec"
	"github.com/goliatone/go-slicerform/pkg/validation"
	"github.com/goliatone/go-slicerform/pkg/widget"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

type parseResponse struct {
	Specification spec.Specification `json:"specification"`
	Outputs       spec.Outputs       `json:"outputs"`
}

// handleParse accepts a raw CLI description body. The optional format query
// parameter forces an adapter and returnParameterFile=true appends the
// return-parameter panel.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	result, apiErr := s.load(r, r.URL.Query().Get("returnParameterFile") == "true")
	if apiErr != nil {
		respondError(w, reqID, statusFor(apiErr), apiErr)
		return
	}
	respondOK(w, reqID, parseResponse{
		Specification: result.Specification,
		Outputs:       result.Outputs,
	})
}

type validateRequest struct {
	XML    string         `json:"xml"`
	Format string         `json:"format"`
	Values map[string]any `json:"values"`
}

type validateResponse struct {
	Valid  bool              `json:"valid"`
	Errors []FieldError      `json:"errors"`
	Values map[string]string `json:"values"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req validateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrValidation,
			Message: "Invalid JSON body: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.XML) == "" {
		respondError(w, reqID, http.StatusBadRequest, &APIError{
			Code:    ErrValidation,
			Message: "xml is required",
		})
		return
	}

	doc, err := schema.FromString("request", req.XML)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrSchema, Message: err.Error()})
		return
	}
	result, apiErr := s.run(r, orchestrator.Request{Document: &doc, Format: req.Format, ReturnParameterFile: true})
	if apiErr != nil {
		respondError(w, reqID, statusFor(apiErr), apiErr)
		return
	}

	coll := result.Collection()
	if err := coll.SetAll(req.Values, widget.NoRender()); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: err.Error()})
		return
	}

	resp := validateResponse{Valid: true, Errors: []FieldError{}, Values: coll.Values()}
	var invalid *widget.InvalidError
	if err := coll.Validate(); errors.As(err, &invalid) {
		resp.Valid = false
		byID := invalid.ByID()
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			resp.Errors = append(resp.Errors, FieldError{Field: id, Message: byID[id]})
		}
	}
	if s.metrics != nil {
		s.metrics.Validations.WithLabelValues(strconv.FormatBool(resp.Valid)).Inc()
	}
	respondOK(w, reqID, resp)
}

// handleOpenAPI describes the CLI's run endpoint as an OpenAPI document. The
// restPath query parameter defaults to DefaultRestPath.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	result, apiErr := s.load(r, false)
	if apiErr != nil {
		respondError(w, reqID, statusFor(apiErr), apiErr)
		return
	}
	restPath := strings.Trim(r.URL.Query().Get("restPath"), "/")
	if restPath == "" {
		restPath = DefaultRestPath
	}
	outputs := result.Outputs
	respondOK(w, reqID, openapi.Document(result.Specification, restPath, openapi.Options{Outputs: &outputs}))
}

// handleLint reports document problems. Parse failures are returned as lint
// issues with a 200 status.
func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: "read body: " + err.Error()})
		return
	}
	doc, err := schema.NewDocument(schema.SourceInline(r.URL.Query().Get("name")), raw)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: err.Error()})
		return
	}
	result := validation.ValidateDocument(r.Context(), doc, validation.Options{
		Format: r.URL.Query().Get("format"),
		Logger: s.logger,
	})
	if result.Issues == nil {
		result.Issues = []validation.Issue{}
	}
	respondOK(w, reqID, result)
}

// load reads the request body as a CLI description and runs the pipeline.
func (s *Server) load(r *http.Request, returnParameterFile bool) (orchestrator.Result, *APIError) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return orchestrator.Result{}, &APIError{Code: ErrValidation, Message: "read body: " + err.Error()}
	}
	doc, err := schema.NewDocument(schema.SourceInline(r.URL.Query().Get("name")), raw)
	if err != nil {
		return orchestrator.Result{}, &APIError{Code: ErrValidation, Message: err.Error()}
	}
	return s.run(r, orchestrator.Request{
		Document:            &doc,
		Format:              r.URL.Query().Get("format"),
		ReturnParameterFile: returnParameterFile,
	})
}

func (s *Server) run(r *http.Request, req orchestrator.Request) (orchestrator.Result, *APIError) {
	format := req.Format
	if format == "" {
		format = "auto"
	}
	result, err := s.orchestrator.Load(r.Context(), req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.Documents.WithLabelValues(format, "error").Inc()
		}
		s.logger.Warn("document rejected", "error", err, "request_id", RequestIDFromContext(r.Context()))
		return orchestrator.Result{}, &APIError{Code: ErrSchema, Message: err.Error()}
	}
	if s.metrics != nil {
		s.metrics.Documents.WithLabelValues(format, "ok").Inc()
	}
	return result, nil
}

func statusFor(apiErr *APIError) int {
	switch apiErr.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrSchema:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
