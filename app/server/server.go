package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"docqa/app/agent"
	"docqa/app/api"
	"docqa/model"
	"docqa/store"
	"docqa/types"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	app        *fiber.App
	sessions   *store.SessionStore
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
	}
}

func (s *Server) Stop() {
	if s.sessions != nil {
		s.sessions.Close()
	}
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error shutting down server")
		}
	}
	log.Info().Msg("server stopped")
}

func (s *Server) Run() {
	cfg := types.LoadConfig()
	if s.listenAddr == "" {
		s.listenAddr = cfg.ListenAddr
	}

	embedder, err := model.NewOpenAIEmbedder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing embedder")
	}

	backends, err := model.NewBackends(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing llm backends")
	}

	s.sessions = store.NewSessionStore(cfg.SessionTTL)
	s.app = fiber.New(config)

	var (
		checkHandler    = api.NewCheckHandler()
		analysisHandler = api.NewAnalysisHandler(agent.New(cfg, embedder, backends, s.sessions))
		check           = s.app.Group("/check")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)
	s.app.Post("/file-analysis", analysisHandler.HandleFileAnalysis)
	s.app.Post("/reset-session", analysisHandler.HandleResetSession)

	if err := s.app.Listen(s.listenAddr); err != nil {
		log.Error().Err(err).Msg("error to start server")
	}
}
