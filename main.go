package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"maplewood-records/app/config"
	"maplewood-records/app/database"
	"maplewood-records/app/identity"
	"maplewood-records/app/logging"
	"maplewood-records/app/records"
	"maplewood-records/app/routes/auth"
	"maplewood-records/app/routes/dashboard"
	"maplewood-records/app/routes/students"
	"maplewood-records/app/session"
)

// customErrorHandler renders anything that escapes a handler as the error
// page instead of Fiber's plain-text default.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Page Not Found - Maplewood Records",
			"ErrorCode":    "404",
			"ErrorTitle":   "Page Not Found",
			"ErrorMessage": "The page you are looking for does not exist.",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "Error - Maplewood Records",
			"ErrorCode":    code,
			"ErrorTitle":   "An Error Occurred",
			"ErrorMessage": err.Error(),
		})
	}
}

// setupApp wires the Fiber app from already-constructed dependencies, so
// tests can assemble the same routes around fakes.
func setupApp(sessions *session.Manager, recordsSvc *records.Service, zlog *zap.Logger) *fiber.App {
	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	authHandlers := &auth.Handlers{Sessions: sessions, Log: zlog}
	authHandlers.SetupRoutes(app)

	dashboardHandlers := &dashboard.Handlers{Records: recordsSvc, Log: zlog}
	dashboardHandlers.SetupRoutes(app, authHandlers)

	studentHandlers := &students.Handlers{Records: recordsSvc, Log: zlog}
	studentHandlers.SetupRoutes(app, authHandlers)

	return app
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Close()

	ctx := context.Background()
	store, err := database.NewFirebaseStore(ctx, cfg.FirebaseDBURL, cfg.CredentialsPath)
	if err != nil {
		zlog.Base.Fatal("connecting to record store", zap.Error(err))
	}

	gateway := identity.NewClient(cfg.FirebaseAPIKey, cfg.RequestTimeout)
	directory := database.NewDirectory(store)
	sessions := session.NewManager(gateway, directory, []byte(cfg.SessionSecret), cfg.SessionTTL, zlog.Base)
	recordsSvc := records.NewService(store, zlog.Base)

	app := setupApp(sessions, recordsSvc, zlog.Base)

	zlog.Sugar.Infow("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Base.Fatal("server stopped", zap.Error(err))
	}
}
