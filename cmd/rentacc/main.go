package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/thangnm/rentacc/app/controllers"
	"github.com/thangnm/rentacc/app/repository"
	"github.com/thangnm/rentacc/internal/pkg/cache"
	"github.com/thangnm/rentacc/internal/pkg/database"
	"github.com/thangnm/rentacc/internal/pkg/env"
	"github.com/thangnm/rentacc/internal/pkg/metrics/counter"
	"github.com/thangnm/rentacc/internal/pkg/rental"
	"github.com/thangnm/rentacc/internal/pkg/router"
	"github.com/thangnm/rentacc/internal/pkg/scheduler"
	"github.com/thangnm/rentacc/internal/pkg/telegram"
)

func main() {
	app := NewApplication()

	// Stop the sweep scheduler cleanly on shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		if m := scheduler.GetManager(); m != nil {
			m.Stop()
		}
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	engine := rental.NewEngine(database.GetDB())
	engine.Mail = rental.NewSMTPNotifier()
	if telegram.Enabled() {
		engine.Chat = telegram.NewClientFromEnv()
	}
	engine.RecordSweep = rental.RecordSweepToCache
	engine.RecordNotify = func(rentalID uint) {
		if err := counter.AddRentalNotification(rentalID); err != nil {
			log.Printf("Warning: could not count notification for rental %d: %v", rentalID, err)
		}
	}
	controllers.SetEngine(engine)

	scheduler.InitializeManager(engine).Start()

	app := fiber.New(fiber.Config{
		AppName: "rentacc",
	})

	app.Use(recover.New(), logger.New())

	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	router.InstallRouter(app)

	return app
}
