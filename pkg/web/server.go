package web

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// Server owns the fiber app serving the automation API.
type Server struct {
	handlers *APIHandlers
	app      *fiber.App
}

func NewServer(handlers *APIHandlers) *Server {
	return &Server{handlers: handlers}
}

func (s *Server) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Nudge API")
	})

	app.Get("/health", s.handlers.HealthCheck)

	r := app.Group("/rules")
	r.Get("/", s.handlers.GetRules)
	r.Post("/", s.handlers.CreateRule)
	r.Get("/:id", s.handlers.GetRule)
	r.Patch("/:id", s.handlers.UpdateRule)
	r.Delete("/:id", s.handlers.DeleteRule)

	app.Get("/actions", s.handlers.GetActions)
	app.Post("/triggers/:type", s.handlers.InjectTrigger)

	app.Get("/settings", s.handlers.GetSettings)
	app.Patch("/settings", s.handlers.UpdateSettings)
	app.Get("/settings/languages", s.handlers.GetLanguages)

	contacts := app.Group("/contacts")
	contacts.Get("/", s.handlers.GetContacts)
	contacts.Post("/", s.handlers.CreateContact)
	contacts.Post("/:id/follow-up", s.handlers.FlagFollowUp)

	deals := app.Group("/deals")
	deals.Get("/", s.handlers.GetDeals)
	deals.Patch("/:id/stage", s.handlers.UpdateDealStage)

	tasks := app.Group("/tasks")
	tasks.Get("/", s.handlers.GetTasks)
	tasks.Post("/", s.handlers.CreateTask)
	tasks.Patch("/:id", s.handlers.UpdateTask)
	tasks.Post("/:id/toggle", s.handlers.ToggleTask)
	tasks.Delete("/:id", s.handlers.DeleteTask)

	activities := app.Group("/activities")
	activities.Get("/", s.handlers.GetActivities)
	activities.Post("/", s.handlers.AddActivity)

	s.app = app

	return app
}

func (s *Server) Start(port int) error {
	return s.App().Listen(":" + strconv.Itoa(port))
}

func (s *Server) Shutdown() error {
	if s.app == nil {
		return nil
	}

	return s.app.Shutdown()
}
