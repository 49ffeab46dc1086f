package controllers

import (
	"fmt"
	"net/http"

	"github.com/code-with-shadow/adhunik-art/api/responses"
	"github.com/code-with-shadow/adhunik-art/pkg/db"
	pkgerrors "github.com/code-with-shadow/adhunik-art/pkg/errors"
	"github.com/code-with-shadow/adhunik-art/pkg/logger"
)

// Health serves liveness and readiness probes.
type Health struct {
	pinger db.Pinger
	logg   *logger.Logger
}

// NewHealth constructs the health controller.
func NewHealth(pinger db.Pinger, logg *logger.Logger) (*Health, error) {
	if pinger == nil {
		return nil, fmt.Errorf("db pinger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Health{pinger: pinger, logg: logg}, nil
}

func (h *Health) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		responses.WriteError(r.Context(), h.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "ready"})
}
