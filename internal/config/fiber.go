package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// multipart framing overhead allowed on top of the upload limit
const bodyLimitSlack = 1024 * 1024

func NewFiber(logger *logrus.Logger, cfg Config) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               "Fish Biomass Estimator",
			BodyLimit:             int(cfg.MaxUploadBytes()) + bodyLimitSlack,
			DisableKeepalive:      false,
			StrictRouting:         true,
			CaseSensitive:         true,
			EnablePrintRoutes:     cfg.AppEnv == "development",
			DisableStartupMessage: cfg.AppEnv == "test",
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
		})

	logger.WithFields(logrus.Fields{
		"body_limit": app.Config().BodyLimit,
		"env":        cfg.AppEnv,
	}).Debug("Fiber app configured")

	return app
}
