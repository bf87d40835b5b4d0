package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/recommend"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/input"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/outwriter"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// templateRequest is the body of POST /api/v1/templates.
type templateRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

// templateResponse carries a rendered test skeleton.
type templateResponse struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Template string `json:"template"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, registry.Default().AllProfiles())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	output, status, err := s.analyzeBody(r)
	if err != nil {
		writeError(w, r, status, err)
		return
	}
	writeJSON(w, http.StatusOK, schema.EnrichAnalysis(output.Result))
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	text, err := recommend.SynthesizeTemplate(req.Name, req.Language, registry.Default())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, templateResponse{Name: req.Name, Language: req.Language, Template: text})
}

// handleTrigger analyzes the posted change document and queues the tests.
// The query parameter dryRun=true skips the CI call.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	cfg := s.baseCfg.Clone()
	if v := r.URL.Query().Get("dryRun"); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid dryRun value %q", v))
			return
		}
		if dry {
			cfg.CIProvider = contract.DryRunProvider
		}
	}
	if v := r.URL.Query().Get("includeSuggested"); v != "" {
		cfg.IncludeSuggested = v == "true" || v == "1"
	}

	trigger, err := s.newTrigger(cfg)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	output, status, err := s.analyzeBodyWith(r, cfg)
	if err != nil {
		writeError(w, r, status, err)
		return
	}

	req, receipt, err := core.TriggerTests(r.Context(), cfg, output, trigger)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, outwriter.TriggerOutput{Request: req, Receipt: receipt})
}

func (s *Server) analyzeBody(r *http.Request) (*core.AnalysisOutput, int, error) {
	return s.analyzeBodyWith(r, s.baseCfg.Clone())
}

// analyzeBodyWith parses a change document from the request body and
// analyzes it. It returns the HTTP status to use on failure.
func (s *Server) analyzeBodyWith(r *http.Request, cfg *contract.Config) (*core.AnalysisOutput, int, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}

	doc, err := input.Parse(data)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}

	var client contract.GitClient
	if cfg.HasRepo {
		client = contract.NewLocalGitClient()
	}
	cs := core.ChangeSetFromDocument(doc)
	result, err := core.AnalyzeChangeSet(r.Context(), cfg, cs, client, s.mgr)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &core.AnalysisOutput{Result: *result, PullRequest: cs.PullRequest}, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contract.LogWarn("Failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := contract.Logger.Warn
	if status >= http.StatusInternalServerError {
		level = contract.Logger.Error
	}
	level("Request failed", "path", r.URL.Path, "status", status, "request_id", middleware.GetReqID(r.Context()), "err", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
