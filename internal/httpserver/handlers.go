package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/config"
	"github.com/aryankumar/fleetdeck/internal/rollout"
	"github.com/aryankumar/fleetdeck/internal/util"
	"github.com/aryankumar/fleetdeck/pkg/version"
	"github.com/go-chi/chi/v5"
)

type switchRequest struct {
	Name string `json:"name"`
}

type rollbackRequest struct {
	Revision int64 `json:"revision"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, version.Get())
}

func (s *Server) handleListContexts(w http.ResponseWriter, r *http.Request) {
	contexts, err := s.session.ListContexts()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if contexts == nil {
		contexts = []config.ClusterContext{}
	}
	s.writeJSON(w, r, http.StatusOK, contexts)
}

func (s *Server) handleSwitchContext(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, r, fmt.Errorf("context name is required: %w", util.ErrInvalidConfig))
		return
	}

	if err := s.session.SwitchContext(r.Context(), req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}

	current, err := s.session.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, current)
}

func (s *Server) handleRemoveContext(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RemoveContext(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.session.Sweep(r.Context())
	if err != nil && snapshots == nil {
		s.writeError(w, r, err)
		return
	}
	if err != nil {
		// probes finished but the original context could not be restored
		s.logger.ErrorContext(r.Context(), "sweep finished with restore error", "error", err)
	}
	s.writeJSON(w, r, http.StatusOK, snapshots)
}

func (s *Server) handleLatestSweep(w http.ResponseWriter, r *http.Request) {
	snapshots := s.session.Orchestrator().LastSnapshots()
	if snapshots == nil {
		snapshots = []cluster.Snapshot{}
	}
	s.writeJSON(w, r, http.StatusOK, snapshots)
}

func (s *Server) handleAggregateMetrics(w http.ResponseWriter, r *http.Request) {
	var agg *cluster.AggregateMetrics
	err := s.session.WithCurrent(r.Context(), func(ctx context.Context, _ *cluster.Handles) error {
		var err error
		agg, err = s.session.Facade().GetAggregateMetrics(ctx)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, agg)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	err := s.session.WithCurrent(r.Context(), func(ctx context.Context, _ *cluster.Handles) error {
		return s.session.Facade().DeleteResourceByName(ctx,
			chi.URLParam(r, "kind"),
			chi.URLParam(r, "name"),
			chi.URLParam(r, "namespace"))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevisions(w http.ResponseWriter, r *http.Request) {
	var history []rollout.RevisionRecord
	err := s.withCoordinator(r, func(ctx context.Context, c *rollout.Coordinator) error {
		var err error
		history, err = c.GetRevisionHistory(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "namespace"))
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, history)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	var req rollbackRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var result *rollout.RollbackResult
	err := s.withCoordinator(r, func(ctx context.Context, c *rollout.Coordinator) error {
		var err error
		result, err = c.RollbackToRevision(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "namespace"), req.Revision)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.deploymentAction(w, r, (*rollout.Coordinator).Pause)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.deploymentAction(w, r, (*rollout.Coordinator).Resume)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.deploymentAction(w, r, (*rollout.Coordinator).Restart)
}

type deploymentActionFunc func(c *rollout.Coordinator, ctx context.Context, name, namespace string) error

func (s *Server) deploymentAction(w http.ResponseWriter, r *http.Request, action deploymentActionFunc) {
	err := s.withCoordinator(r, func(ctx context.Context, c *rollout.Coordinator) error {
		return action(c, ctx, chi.URLParam(r, "name"), chi.URLParam(r, "namespace"))
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withCoordinator runs fn against the active context, or against the context
// named by the "context" query parameter through a scoped switch.
func (s *Server) withCoordinator(r *http.Request, fn func(ctx context.Context, c *rollout.Coordinator) error) error {
	run := func(ctx context.Context, h *cluster.Handles) error {
		return fn(ctx, rollout.NewCoordinator(h, s.logger))
	}

	if target := r.URL.Query().Get("context"); target != "" {
		return s.session.WithContext(r.Context(), target, run)
	}
	return s.session.WithCurrent(r.Context(), run)
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v: %w", err, util.ErrInvalidConfig)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
