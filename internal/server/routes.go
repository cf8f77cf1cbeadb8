package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kobogate/internal/handlers"
	"kobogate/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	prom := middlewares.NewPrometheusMiddleware()
	r.Use(middlewares.RateLimit)
	r.Use(prom.Instrument)
	r.Use(middlewares.CaptureRequestContext)

	ch := handlers.NewCommonHandler()
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerKoboRoutes(r)
	s.registerImageRoutes(r)

	return r
}

func (s *Server) registerKoboRoutes(r *mux.Router) {
	kh := handlers.NewKoboHandler(s.cfg, s.syncService, s.actionService, s.articleService)

	r.HandleFunc("/api/kobo/get", kh.Get).Methods("POST")
	r.HandleFunc("/api/kobo/download", kh.Download).Methods("POST")
	r.HandleFunc("/api/kobo/send", kh.Send).Methods("POST")
}

func (s *Server) registerImageRoutes(r *mux.Router) {
	ih := handlers.NewImageHandler(s.imageService)

	r.HandleFunc("/api/convert-image", ih.Convert).Methods("GET")
}
