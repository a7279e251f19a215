package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"sixia/internal/apperr"
	"sixia/internal/config"
	"sixia/internal/database"
	"sixia/internal/database/repositories"
	"sixia/internal/identity"
	"sixia/internal/service"
)

type FiberServer struct {
	*fiber.App

	// db is nil when the server runs on the in-memory store.
	db    database.Service
	log   zerolog.Logger
	notes *service.NoteService
	auth  *service.AuthService
	prefs *service.PreferencesService
}

// Deps are the collaborators of a FiberServer.
type Deps struct {
	Config      *config.Config
	Logger      zerolog.Logger
	DB          database.Service
	Users       repositories.UserRepository
	Notes       repositories.NoteRepository
	Preferences repositories.PreferencesRepository
}

func New(deps Deps) (*FiberServer, error) {
	cfg := deps.Config
	issuer := identity.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	auth, err := service.NewAuthService(deps.Users, issuer, cfg.Auth.BcryptCost, deps.Logger)
	if err != nil {
		return nil, err
	}

	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader:          "sixia",
			AppName:               "sixia",
			BodyLimit:             cfg.Server.BodyLimit,
			ReadTimeout:           cfg.Server.ReadTimeout,
			WriteTimeout:          cfg.Server.WriteTimeout,
			ErrorHandler:          errorHandler(deps.Logger),
			DisableStartupMessage: true,
		}),
		db:    deps.DB,
		log:   deps.Logger,
		notes: service.NewNoteService(deps.Notes, deps.Logger),
		auth:  auth,
		prefs: service.NewPreferencesService(deps.Preferences, deps.Logger),
	}

	origins := cfg.Server.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	server.App.Use(requestid.New())
	server.App.Use(requestLogger(deps.Logger))
	server.App.Use(recover.New())
	server.App.Use(favicon.New())
	server.App.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With, " + identity.HeaderUserID,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		MaxAge:       3600,
	}))
	if cfg.Server.Pprof {
		server.App.Use(pprof.New())
	}

	var fallback identity.Resolver
	if cfg.Auth.AllowIdentityHint {
		fallback = identity.HintResolver{}
		deps.Logger.Warn().Msg("identity hints enabled; callers can claim any user id")
	}
	server.App.Use(identity.Middleware(issuer, fallback))

	return server, nil
}

// requestLogger writes one line per request. Errors from the chain are
// rendered here so that the logged status is the one sent.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request")
		return nil
	}
}

// errorHandler renders every error as {"error", "code"}.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
				"code":  kindForStatus(fe.Code),
			})
		}

		kind := apperr.KindOf(err)
		if kind == "" {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			kind = apperr.KindPersistence
		}
		return c.Status(apperr.HTTPStatus(kind)).JSON(fiber.Map{
			"error": apperr.MessageOf(err),
			"code":  kind,
		})
	}
}

func kindForStatus(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return string(apperr.KindUnauthorized)
	case fiber.StatusNotFound:
		return string(apperr.KindNotFound)
	case fiber.StatusInternalServerError:
		return string(apperr.KindPersistence)
	}
	if status >= fiber.StatusBadRequest && status < fiber.StatusInternalServerError {
		return string(apperr.KindInvalidInput)
	}
	return "HTTP_ERROR"
}
