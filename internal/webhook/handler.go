package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/go-github/v60/github"
	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
)

// EventRunner runs the status pipeline for one event.
type EventRunner interface {
	Run(ctx context.Context, ev *pipeline.Event) (*pipeline.Result, error)
}

type eventResponse struct {
	Status     string `json:"status"`
	Issue      int    `json:"issue,omitempty"`
	NewStatus  string `json:"new_status,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// GitHubEvents handles GitHub webhook deliveries.
func GitHubEvents(runner EventRunner, secret []byte, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := github.ValidatePayload(r, secret)
		if err != nil {
			if len(secret) > 0 {
				logger.Warn("GitHubEvents: invalid signature", zap.Error(err))
				writeError(w, logger, "invalid signature", http.StatusUnauthorized)
				return
			}
			logger.Warn("GitHubEvents: failed to read payload", zap.Error(err))
			writeError(w, logger, "invalid payload", http.StatusBadRequest)
			return
		}

		eventType := github.WebHookType(r)
		deliveryID := github.DeliveryID(r)

		ev, err := ParseEvent(eventType, deliveryID, payload)
		if err != nil {
			logger.Warn("GitHubEvents: failed to parse event", zap.String("event", eventType), zap.Error(err))
			writeError(w, logger, "failed to parse event", http.StatusBadRequest)
			return
		}
		if ev == nil {
			logger.Debug("GitHubEvents: ignoring delivery", zap.String("event", eventType), zap.String("delivery", deliveryID))
			writeJSON(w, logger, http.StatusAccepted, eventResponse{Status: "ignored"})
			return
		}

		result, err := runner.Run(r.Context(), ev)
		if err != nil {
			logger.Error("GitHubEvents: failed to process event",
				zap.String("delivery", deliveryID),
				zap.Int("issue", ev.IssueNumber),
				zap.Error(err),
			)
			writeError(w, logger, "failed to process event", http.StatusInternalServerError)
			return
		}

		resp := eventResponse{Status: "processed", Issue: ev.IssueNumber}
		if result != nil {
			resp.NewStatus = string(result.NewStatus)
			if result.Skipped {
				resp.Status = "skipped"
				resp.SkipReason = result.SkipReason
			}
		}
		writeJSON(w, logger, http.StatusOK, resp)
	}
}

// Health reports that the server is up.
func Health(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	writeJSON(w, logger, statusCode, errorResponse{Status: statusCode, Message: message})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writeJSON: failed to encode response", zap.Error(err))
	}
}
