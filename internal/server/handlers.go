package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/journey/pkg/buildinfo"
	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/journey/inspect"
	"github.com/matzehuels/journey/pkg/journey/repair"
	"github.com/matzehuels/journey/pkg/pipeline"
	"github.com/matzehuels/journey/pkg/store"
)

// =============================================================================
// Request and Response Bodies
// =============================================================================

type requirementsRequest struct {
	Description string `json:"description"`
}

type nodesRequest struct {
	Nodes            []journey.Node       `json:"nodes"`
	Requirements     journey.Requirements `json:"requirements"`
	PreserveBranches bool                 `json:"preserveBranches,omitempty"`
	Root             string               `json:"root,omitempty"`
}

type validateResponse struct {
	Validation repair.Validation `json:"validation"`
	Report     inspect.Report    `json:"report"`
}

type nodesResponse struct {
	Nodes []journey.Node `json:"nodes"`
}

type keysResponse struct {
	Keys []string `json:"keys"`
}

type putRequest struct {
	Description  string               `json:"description"`
	Requirements journey.Requirements `json:"requirements"`
	Nodes        []journey.Node       `json:"nodes"`
}

// =============================================================================
// Pipeline Routes
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = nil
	opts.ApplyConfig(s.cfg)
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) requirements(w http.ResponseWriter, r *http.Request) {
	var req requirementsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, journey.ExtractRequirements(req.Description))
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req nodesRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{
		Validation: repair.Validate(req.Nodes, req.Requirements),
		Report:     inspect.Inspect(req.Nodes, req.Root),
	})
}

func (s *Server) repair(w http.ResponseWriter, r *http.Request) {
	var req nodesRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	opts := pipeline.Options{PreserveBranches: req.PreserveBranches, Root: req.Root, Logger: s.logger}
	opts.ApplyConfig(s.cfg)
	writeJSON(w, http.StatusOK, s.runner.Process(r.Context(), req.Nodes, req.Requirements, opts))
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req nodesRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	opts := pipeline.Options{Logger: s.logger}
	opts.ApplyConfig(s.cfg)
	nodes := s.runner.Relayout(r.Context(), req.Nodes, req.Root, opts)
	writeJSON(w, http.StatusOK, nodesResponse{Nodes: nodes})
}

// =============================================================================
// Store Routes
// =============================================================================

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "no store configured"))
		return false
	}
	return true
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	keys, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "list journeys"))
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keysResponse{Keys: keys})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	rec, err := store.Load(r.Context(), s.store, chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req putRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	rec := store.Record{
		Key:          chi.URLParam(r, "key"),
		Description:  req.Description,
		Requirements: req.Requirements,
		Nodes:        req.Nodes,
	}
	if err := store.Save(r.Context(), s.store, rec); err != nil {
		s.writeError(w, err)
		return
	}
	saved, err := store.Load(r.Context(), s.store, rec.Key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	key := chi.URLParam(r, "key")
	if err := errors.ValidateKey(key); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), key); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete %s", key))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
