package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/admin"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/cep"
	"github.com/example/task-tracker/modules/tasks"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then dependent modules.
	app.Register(cep.NewModule())
	app.Register(tasks.NewModule(cfg))
	app.Register(auth.NewModule(cfg))  // depends on tasks
	app.Register(admin.NewModule(cfg)) // depends on tasks
	app.Register(api.NewModule(cfg))   // depends on all of the above

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	log.Printf("Task tracker up on %s (database: %s)", cfg.HTTPAddr, cfg.Database.Path)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.toml"
}
