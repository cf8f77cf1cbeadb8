package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"kobogate/internal/config"
	"kobogate/internal/services"
)

type Server struct {
	cfg        *config.Config
	httpServer *http.Server

	syncService    services.SyncService
	actionService  services.ActionService
	articleService services.ArticleService
	imageService   services.ImageService
}

func NewServer(cfg *config.Config) *Server {
	clients := services.NewReadeckFactory(cfg)

	s := &Server{
		cfg:            cfg,
		syncService:    services.NewSyncService(clients),
		actionService:  services.NewActionService(clients),
		articleService: services.NewArticleService(clients),
		imageService:   services.NewImageService(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Str("readeck_url", s.cfg.ReadeckURL).Bool("convert_to_jpeg", s.cfg.ConvertToJPEG).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
