package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/patobeur/inouttracker/internal/apperr"
	"github.com/patobeur/inouttracker/internal/requestctx"
)

type errorBody struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		payload = struct{}{}
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// WriteError renders err as the JSON error envelope. Unclassified errors
// become a generic 500; their cause is only exposed when debug is set.
func WriteError(w http.ResponseWriter, r *http.Request, err error, debug bool) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err)
	}
	status := ae.Kind.Status()
	body := errorBody{Error: ae.Message, Details: ae.Details}

	entry := log.WithFields(log.Fields{
		"request_id": requestctx.RequestID(r.Context()),
		"status":     status,
		"kind":       ae.Kind.String(),
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed")
		if debug {
			body.Details = map[string]interface{}{
				"type":  fmt.Sprintf("%T", cause(err)),
				"cause": err.Error(),
			}
		}
	} else {
		entry.Debug(ae.Message)
	}

	writeJSON(w, status, body)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, err, a.Debug)
}

// cause returns the innermost error of the chain.
func cause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
