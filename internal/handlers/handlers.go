// internal/handlers/handlers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"campus-swamp/internal/database"
	"campus-swamp/internal/engine"
	"campus-swamp/internal/live"
	"campus-swamp/internal/presence"
	"campus-swamp/internal/storage"
	"campus-swamp/internal/utils"
	"campus-swamp/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds the HTTP layer's dependencies: the actor engine, the live
// bus, presence tracking, storage, and MongoDB for direct reads.
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	MongoDB        *database.MongoDB
	Bus            *live.Bus
	Tracker        *presence.Tracker
	Hub            *websocket.Hub
	Storage        *storage.S3Client
	RequestTimeout time.Duration
}

func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	mongodb *database.MongoDB,
	bus *live.Bus,
	tracker *presence.Tracker,
	hub *websocket.Hub,
	s3 *storage.S3Client,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         eng,
		Metrics:        metrics,
		MongoDB:        mongodb,
		Bus:            bus,
		Tracker:        tracker,
		Hub:            hub,
		Storage:        s3,
		RequestTimeout: 5 * time.Second,
	}
}

// ask sends a message to an actor and waits for its reply.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	return future.Result()
}

// respond writes an actor result as JSON, translating *utils.AppError
// replies to their HTTP status.
func (s *Server) respond(w http.ResponseWriter, result interface{}, err error) {
	if err != nil {
		s.Metrics.IncrementErrors()
		http.Error(w, "Request timed out", http.StatusInternalServerError)
		return
	}
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// decodeBody parses a JSON request body, answering 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

// requireMethod answers 405 unless the request uses the given method.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
