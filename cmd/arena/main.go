// cmd/arena/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-botarena/pkg/actor"
	"github.com/opd-ai/go-botarena/pkg/bot"
	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/engine"
	"github.com/opd-ai/go-botarena/pkg/event"
	"github.com/opd-ai/go-botarena/pkg/health"
	"github.com/opd-ai/go-botarena/pkg/logging"
	"github.com/opd-ai/go-botarena/pkg/physics"
	"github.com/opd-ai/go-botarena/pkg/render"
	arenascene "github.com/opd-ai/go-botarena/pkg/render/engo"
	"github.com/opd-ai/go-botarena/pkg/resource"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	rulesPath := flag.String("rules", "rules.json", "Path to match rules file")
	createDefault := flag.Bool("default", false, "Create default rules file and exit")
	renderMode := flag.String("render", "terminal", "Renderer: terminal, engo or null")
	hunters := flag.Int("hunters", 1, "Number of hunter bots")
	wanderers := flag.Int("wanderers", 2, "Number of wanderer bots")
	flag.Parse()

	if *createDefault {
		if err := config.SaveRules(config.DefaultRules(), *rulesPath); err != nil {
			logger.Error(ctx, "Failed to create default rules", err, "rules_path", *rulesPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default rules file", "rules_path", *rulesPath)
		return
	}

	rules := loadRules(ctx, logger, *rulesPath)

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	resources := resource.NewManager(envConfig)
	if err := resources.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource manager", err)
		os.Exit(1)
	}

	game := engine.NewGame(rules, envConfig)
	logLifecycleEvents(ctx, logger, game)

	if err := addBots(game, rules, *hunters, *wanderers); err != nil {
		logger.Error(ctx, "Failed to add bots", err)
		os.Exit(1)
	}

	healthServer := startHealthServer(ctx, logger, game, envConfig, resources)

	if err := game.Start(ctx); err != nil {
		logger.Error(ctx, "Failed to start match", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Match started",
		"agents", game.LiveAgents(),
		"tick_rate", envConfig.TickRate,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *renderMode == "engo" {
		runWindowed(game, rules)
	} else {
		runMatch(ctx, logger, game, envConfig, newRenderer(*renderMode, rules), sigChan)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
	if err := resources.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Resource manager shutdown failed", err)
	}
}

// loadRules reads the rules file, falling back to defaults when the
// file does not exist.
func loadRules(ctx context.Context, logger *logging.Logger, path string) *config.Rules {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Rules file not found, using defaults", "rules_path", path)
		return config.DefaultRules()
	}
	rules, err := config.LoadRules(path)
	if err != nil {
		logger.Error(ctx, "Failed to load rules", err, "rules_path", path)
		os.Exit(1)
	}
	return rules
}

// addBots spawns the requested bots evenly spaced on a ring at half the
// arena's radius, facing the center.
func addBots(game *engine.Game, rules *config.Rules, hunters, wanderers int) error {
	total := hunters + wanderers
	if total < 1 {
		return fmt.Errorf("at least one bot required, got %d", total)
	}

	radius := rules.WorldSize / 4
	for i := 0; i < total; i++ {
		angle := 2 * math.Pi * float64(i) / float64(total)
		position := physics.FromAngle(angle, radius)

		var name string
		var script actor.Script
		if i < hunters {
			name = fmt.Sprintf("hunter-%d", i+1)
			script = bot.NewHunter()
		} else {
			name = fmt.Sprintf("wanderer-%d", i-hunters+1)
			script = bot.NewWanderer()
		}
		if _, err := game.AddAgent(name, script, 1, position); err != nil {
			return fmt.Errorf("adding %s: %w", name, err)
		}
	}
	return nil
}

// logLifecycleEvents subscribes operator-facing log lines to the match
// event bus.
func logLifecycleEvents(ctx context.Context, logger *logging.Logger, game *engine.Game) {
	game.EventBus.Subscribe(event.AgentSpawned, func(e event.Event) {
		ev := e.(*event.AgentEvent)
		logger.Info(ctx, "Agent spawned", "agent_id", ev.AgentID, "name", ev.Reason)
	})
	game.EventBus.Subscribe(event.AgentRetired, func(e event.Event) {
		ev := e.(*event.AgentEvent)
		logger.Warn(ctx, "Agent retired", "agent_id", ev.AgentID, "reason", ev.Reason)
	})
	game.EventBus.Subscribe(event.AgentDestroyed, func(e event.Event) {
		ev := e.(*event.AgentEvent)
		logger.Info(ctx, "Agent destroyed", "agent_id", ev.AgentID)
	})
	game.EventBus.Subscribe(event.AgentHit, func(e event.Event) {
		ev := e.(*event.HitEvent)
		logger.Info(ctx, "Agent hit",
			"target_id", ev.TargetID, "owner_id", ev.OwnerID, "power", ev.Power)
	})
}

// newRenderer builds the requested renderer backend.
func newRenderer(mode string, rules *config.Rules) render.Renderer {
	if mode == "null" {
		return render.NewNullRenderer()
	}
	// 80x24 view covering the whole arena.
	r := render.NewTerminalRenderer(80, 24, rules.WorldSize/80)
	return r
}

// runWindowed opens the graphical arena view. Engo owns the main loop:
// the scene's match system advances the game once per frame, and the
// call returns when the window closes.
func runWindowed(game *engine.Game, rules *config.Rules) {
	const windowWidth = 1024
	opts := engo.RunOptions{
		Title:  "botarena",
		Width:  windowWidth,
		Height: 768,
	}
	engo.Run(opts, arenascene.NewArenaScene(game, rules.WorldSize/windowWidth))
	game.Stop()
}

// runMatch drives the tick loop until the match ends or a signal
// arrives.
func runMatch(
	ctx context.Context,
	logger *logging.Logger,
	game *engine.Game,
	envConfig *config.EnvironmentConfig,
	renderer render.Renderer,
	sigChan <-chan os.Signal,
) {
	deltaTime := 1.0 / float64(envConfig.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(envConfig.TickRate))
	defer ticker.Stop()

	for game.Running() {
		select {
		case <-ticker.C:
			if err := game.Update(ctx, deltaTime); err != nil {
				logger.Error(ctx, "Tick failed", err, "tick", game.Tick())
				game.Stop()
				return
			}
			render.DrawFrame(renderer, game.AgentStates(), game.Bullets())
		case <-sigChan:
			logger.Info(ctx, "Shutting down match")
			game.Stop()
			return
		}
	}

	if winner := game.Winner(); winner != 0 {
		logger.Info(ctx, "Match over", "winner_id", uint64(winner), "ticks", game.Tick(), "elapsed", game.Elapsed().String())
	} else {
		logger.Info(ctx, "Match over with no winner", "ticks", game.Tick(), "elapsed", game.Elapsed().String())
	}
}

// startHealthServer exposes liveness and readiness probes for the arena
// process on a background goroutine.
func startHealthServer(
	ctx context.Context,
	logger *logging.Logger,
	game *engine.Game,
	envConfig *config.EnvironmentConfig,
	resources *resource.Manager,
) *http.Server {
	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewMatchHealthCheck(game.Running))
	healthChecker.AddCheck(health.NewAgentsHealthCheck(game.LiveAgents))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(envConfig.MaxMemoryMB, func() int64 {
		if err := resources.CheckMemoryUsage(); err != nil {
			logger.Warn(ctx, "Memory check failed", "error", err.Error())
		}
		return resources.MemoryUsageMB()
	}))

	healthPort := "8080"
	if envPort := os.Getenv("BOTARENA_HEALTH_PORT"); envPort != "" {
		if _, err := strconv.Atoi(envPort); err == nil {
			healthPort = envPort
		}
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", healthChecker.LivenessHandler)
	healthMux.HandleFunc("/ready", healthChecker.ReadinessHandler)

	healthServer := &http.Server{
		Addr:         ":" + healthPort,
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	err := resources.StartGoroutine(ctx, "health-server", func(context.Context) {
		logger.Info(ctx, "Starting health check server", "port", healthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Health check server failed", err)
		}
	})
	if err != nil {
		logger.Error(ctx, "Failed to start health check server", err)
	}
	return healthServer
}
