package controlapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/telegraph/pkg/blueprint"
	"github.com/dmitrymomot/telegraph/pkg/httpserver"
	"github.com/dmitrymomot/telegraph/pkg/logger"
	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

var errDriverStopped = errors.New("driver is not running")

type api struct {
	engine *statemachine.Engine
	log    *slog.Logger
}

// StateResponse is the body of GET /state.
type StateResponse struct {
	Name    string `json:"name"`
	Initial string `json:"initial"`
	Current string `json:"current"`
	Goal    string `json:"goal"`
	Running bool   `json:"running"`
}

// GoalRequest is the body of PUT /goal.
type GoalRequest struct {
	State string `json:"state"`
}

// EventResponse is the body of POST /events/{name}.
type EventResponse struct {
	Transitions int    `json:"transitions"`
	Current     string `json:"current"`
}

// DriveResponse is the body of POST /drive/{state}.
type DriveResponse struct {
	Reached bool   `json:"reached"`
	Current string `json:"current"`
}

// Router returns the control routes for e. A nil log discards output.
// GET /ready passes when every check passes; add DriverCheck when the engine
// is expected to drive itself.
//
//	r := chi.NewRouter()
//	r.Mount("/machine", controlapi.Router(engine, log, controlapi.DriverCheck(engine)))
func Router(e *statemachine.Engine, log *slog.Logger, checks ...httpserver.Check) chi.Router {
	if log == nil {
		log = logger.Discard()
	}
	a := &api{engine: e, log: log.With(logger.Component("controlapi"))}

	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", httpserver.HealthCheckHandler(a.log))
	r.Get("/ready", httpserver.HealthCheckHandler(a.log, checks...))

	r.Get("/state", a.state)
	r.Put("/goal", a.setGoal)
	r.Post("/events/{name}", a.fireEvent)
	r.Post("/drive/{state}", a.drive)
	r.Post("/start", a.start)
	r.Post("/stop", a.stop)

	r.Get("/graph", a.graph)
	r.Get("/graph.dot", a.graphDOT)
	r.Get("/blueprint", a.blueprint)

	return r
}

// DriverCheck fails while the driver is stopped short of a terminal state.
// A driver that finished in a terminal state is done, not broken.
func DriverCheck(e *statemachine.Engine) httpserver.Check {
	return httpserver.Check{
		Name: "driver",
		Fn: func(context.Context) error {
			if e.IsRunning() || e.IsTerminal(e.CurrentState()) {
				return nil
			}
			return errDriverStopped
		},
	}
}

func (a *api) state(w http.ResponseWriter, _ *http.Request) {
	snap := a.engine.Snapshot()
	writeJSON(w, http.StatusOK, StateResponse{
		Name:    snap.Name,
		Initial: snap.Initial,
		Current: snap.Current,
		Goal:    snap.Goal,
		Running: snap.Running,
	})
}

func (a *api) setGoal(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil || req.State == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: `body must be {"state": "<name>"}`})
		return
	}
	if err := a.engine.SetGoalState(req.State); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.log.InfoContext(r.Context(), "goal set", logger.Goal(req.State), logger.Source("api"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) fireEvent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	n := a.engine.FireEvent(r.Context(), name)
	writeJSON(w, http.StatusOK, EventResponse{
		Transitions: n,
		Current:     a.engine.CurrentState(),
	})
}

func (a *api) drive(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "state")
	reached, err := a.engine.DriveTo(r.Context(), target)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DriveResponse{
		Reached: reached,
		Current: a.engine.CurrentState(),
	})
}

func (a *api) start(w http.ResponseWriter, _ *http.Request) {
	a.engine.Start()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) stop(w http.ResponseWriter, _ *http.Request) {
	a.engine.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) graph(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.engine.Snapshot())
}

func (a *api) graphDOT(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(a.engine.Snapshot().DOT()))
}

func (a *api) blueprint(w http.ResponseWriter, r *http.Request) {
	data, err := blueprint.FromSnapshot(a.engine.Snapshot()).Marshal()
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}
