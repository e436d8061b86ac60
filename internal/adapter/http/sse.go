package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/service"
)

const keepAliveInterval = 15 * time.Second

type SSEHandler struct {
	eventBus *service.EventBus
	jobSvc   JobService
}

func NewSSEHandler(eventBus *service.EventBus, jobSvc JobService) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		jobSvc:   jobSvc,
	}
}

// sseWrite writes a single-line SSE event and flushes it.
func sseWrite(w http.ResponseWriter, eventName string, data []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName, data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// sendSnapshot emits the job as a status event unless it encodes the same as
// last. It returns the payload that is now current on the stream.
func sendSnapshot(w http.ResponseWriter, job *domain.Job, last []byte) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return last, err
	}
	if last != nil && string(payload) == string(last) {
		return last, nil
	}
	sseWrite(w, service.EventStatus, payload)
	return payload, nil
}

// sendKeepAlive writes an SSE comment to keep the connection active.
func sendKeepAlive(w http.ResponseWriter) {
	_, _ = fmt.Fprint(w, ": keep-alive\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Events streams status snapshots for one job until it reaches a terminal
// state or the client goes away.
func (h *SSEHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("jobId")
		ctx := r.Context()

		// Subscribe first so a transition between the lookup and the loop is not lost.
		ch := h.eventBus.Subscribe(id)
		defer h.eventBus.Unsubscribe(id, ch)

		job, err := h.jobSvc.Get(ctx, id)
		if err != nil {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		last, _ := sendSnapshot(w, job, nil)
		if job.Status.Terminal() {
			return
		}

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepAlive.C:
				sendKeepAlive(w)
			case event, ok := <-ch:
				if !ok {
					return
				}
				if event.Job == nil {
					continue
				}
				last, _ = sendSnapshot(w, event.Job, last)
				if event.Job.Status.Terminal() {
					return
				}
			}
		}
	}
}
