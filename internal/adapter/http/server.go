package http

import (
	"net/http"

	"github.com/bnema/docforge/internal/adapter/http/middleware"
	"github.com/bnema/docforge/internal/service"
)

type Server struct {
	mux        *http.ServeMux
	handlers   *Handlers
	sseHandler *SSEHandler
}

func NewServer(jobSvc JobService, eventBus *service.EventBus, maxSizeMB int, version string) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		handlers:   NewHandlers(jobSvc, maxSizeMB, version),
		sseHandler: NewSSEHandler(eventBus, jobSvc),
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/upload", s.handlers.Upload())
	s.mux.HandleFunc("POST /api/convert", s.handlers.Convert())
	s.mux.HandleFunc("GET /api/conversions", s.handlers.Conversions())
	s.mux.HandleFunc("GET /api/job/{jobId}", s.handlers.Job())
	s.mux.HandleFunc("GET /api/download/{jobId}", s.handlers.Download())
	s.mux.HandleFunc("GET /api/events/{jobId}", s.sseHandler.Events())
	s.mux.HandleFunc("GET /healthz", s.handlers.Health())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.SecurityHeaders(s.mux).ServeHTTP(w, r)
}
