package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"student-crm/core/loader"
	"student-crm/core/logger"
	"student-crm/core/middleware/auth"
	"student-crm/core/middleware/rayid"
	"student-crm/feature/batches"
	"student-crm/feature/catalog"
	"student-crm/feature/dashboard"
	"student-crm/feature/students"
	"student-crm/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "student-crm/docs/swagger"
)

// @title Student CRM API
// @version 1.0
// @description API for student profiles and LMS synchronization.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the student CRM server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(students.NewFeature(rt.db, rt.lms, logg))
		mgr.Register(sync.NewFeature(rt.syncService(cmd.Context())))
		mgr.Register(catalog.NewFeature(rt.db, rt.lms, logg))
		mgr.Register(batches.NewFeature(rt.db, logg))
		mgr.Register(dashboard.NewFeature(rt.db, logg))

		// RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey:       rt.cfg.Server.ApiKey,
			SkipPrefixes: []string{"/swagger"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Address()))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
