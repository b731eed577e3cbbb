package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sunilfabrications/backend/api/responses"
	"github.com/sunilfabrications/backend/internal/live"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
	"github.com/sunilfabrications/backend/pkg/logger"
)

const liveHeartbeatInterval = 25 * time.Second

// LiveSubscribe streams collection snapshots over server-sent events. The
// first event is the current snapshot; every mutation pushes a fresh one.
func LiveSubscribe(hub *live.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "live hub unavailable"))
			return
		}

		collection := strings.TrimSpace(r.URL.Query().Get("collection"))
		if collection == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "collection query parameter required"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		subID, ch, err := hub.Subscribe(r.Context(), collection)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "subscribe"))
			return
		}
		defer hub.Unsubscribe(collection, subID)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(liveHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				// SSE comment line keeps intermediaries from closing the stream.
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()
			case snapshot, open := <-ch:
				if !open {
					return
				}
				payload, err := json.Marshal(snapshot)
				if err != nil {
					if logg != nil {
						logg.Error(r.Context(), "encode live snapshot", err)
					}
					continue
				}
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
