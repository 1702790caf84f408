package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FishBiomass/database/postgres"
	predictionHandler "FishBiomass/internal/api/prediction/handler"
	predictionRepository "FishBiomass/internal/api/prediction/repository"
	predictionService "FishBiomass/internal/api/prediction/service"
	"FishBiomass/internal/middleware"
	"FishBiomass/pkg/estimator"
	"FishBiomass/pkg/utils"
	"FishBiomass/pkg/vision"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	cfg        *Config
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	estimator  estimator.Estimator
	extractor  *vision.Extractor
	repository predictionRepository.Repository
	handlers   []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			if server.repository != nil {
				server.repository.Close()
			}
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithConfig(cfg Config) ServerOption {
	return func(s *Server) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.cfg = &cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithEstimator loads the weight model. In eager mode a missing or corrupt
// artifact fails server construction; in lazy mode it surfaces per request.
func WithEstimator() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || s.log == nil {
			return fmt.Errorf("config and logger must be initialized before estimator")
		}

		if s.cfg.ModelLoadMode == ModelLoadLazy {
			s.estimator = estimator.NewLazy(s.cfg.ModelPath)
			s.log.WithFields(logrus.Fields{
				"path": s.cfg.ModelPath,
			}).Info("Weight model will be loaded on first use")
			return nil
		}

		model, err := estimator.Load(s.cfg.ModelPath)
		if err != nil {
			s.log.Errorf("Failed to load weight model: %v", err)
			return err
		}

		s.log.WithFields(logrus.Fields{
			"path":         s.cfg.ModelPath,
			"trained_rows": model.TrainedRows,
			"holdout_mae":  model.HoldoutMAE,
		}).Info("Weight model loaded")
		s.estimator = model
		return nil
	}
}

func WithEstimatorInstance(est estimator.Estimator) ServerOption {
	return func(s *Server) error {
		s.estimator = est
		return nil
	}
}

func WithExtractor(params vision.Params) ServerOption {
	return func(s *Server) error {
		ext, err := vision.NewExtractor(params)
		if err != nil {
			return err
		}
		s.extractor = ext
		return nil
	}
}

func WithObservationLog() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil || s.log == nil {
			return fmt.Errorf("config and logger must be initialized before observation log")
		}

		switch s.cfg.LogDriver {
		case predictionRepository.DriverPostgres:
			db, err := postgres.New(s.cfg.Database)
			if err != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
				return fmt.Errorf("failed to create database connection: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			u := s.utils
			if u == nil {
				u = utils.New()
			}
			repo, err := predictionRepository.NewPostgres(ctx, db, u, s.log)
			if err != nil {
				db.Close()
				return err
			}
			s.repository = repo
		default:
			repo, err := predictionRepository.NewCSV(s.cfg.LogPath, s.log)
			if err != nil {
				s.log.Errorf("Failed to open observation log: %v", err)
				return err
			}
			s.repository = repo
		}
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}

		opts := middleware.DefaultOptions()
		if s.cfg != nil {
			opts.RequestsPerSecond = s.cfg.RateLimitRPS
			opts.Burst = s.cfg.RateLimitBurst
		}
		s.middleware = middleware.New(s.log, opts)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		if s.cfg == nil {
			s.utils = utils.New()
			return nil
		}
		s.utils = utils.NewWithMaxFileSize(s.cfg.MaxUploadBytes())
		return nil
	}
}

// RegisterHandler wires the prediction domain and mounts every route. It must
// run after all options have been applied and before Run.
func (s *Server) RegisterHandler() error {
	if s.middleware == nil || s.validator == nil || s.utils == nil {
		return errors.New("middleware, validator and utils are required")
	}
	if s.estimator == nil || s.extractor == nil || s.repository == nil {
		return errors.New("estimator, extractor and observation log are required")
	}

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	// Prediction
	predictionServices := predictionService.NewPredictionService(s.log, s.repository, s.estimator, s.extractor)
	predictionHandlers := predictionHandler.New(s.log, s.validator, s.middleware, predictionServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, predictionHandlers)

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}

	return nil
}

func (s *Server) Engine() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	return s.engine.Listen(fmt.Sprintf(":%s", s.cfg.AppPort))
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the
// observation log.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	if s.repository != nil {
		if cerr := s.repository.Close(); cerr != nil {
			s.log.Errorf("Failed to close observation log: %v", cerr)
			err = errors.Join(err, cerr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status": "ok",
		})
	})
}
