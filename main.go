// Command drone runs the drone classroom simulator.
//
// It supports four commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "tui" – flies a single drone locally in the terminal
//  4. "layouts" – validates obstacle layouts and reports their coverage
//
// Flags control host/port, config directory, debug logging, and optional
// ngrok tunneling for easy external access during development. Every flag
// can also be set through the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/drone-sim/api"
	"github.com/wricardo/drone-sim/game/config"
	"github.com/wricardo/drone-sim/game/engine"
	"github.com/wricardo/drone-sim/game/service"
	"github.com/wricardo/drone-sim/game/session"
	"github.com/wricardo/drone-sim/transport/mcp"
	"github.com/wricardo/drone-sim/transport/websocket"
	"github.com/wricardo/drone-sim/tui"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Drone Classroom Simulator"
)

const (
	defaultConfigDir = "configs"
	cleanupInterval  = 1 * time.Hour
	sessionMaxAge    = 24 * time.Hour
)

// main loads .env, then hands off to the command tree.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("error loading .env file", "err", err)
		}
	} else {
		log.Debug("loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal("drone exited", "err", err)
	}
}

// newApp builds the command tree. Flags live on the root so every command
// shares them.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "drone",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   defaultConfigDir,
				Usage:   "Directory containing obstacle layouts (.json, .yaml)",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "default-layout",
				Value:   engine.DefaultLayoutName,
				Usage:   "Layout used when a session does not name one",
				Sources: cli.EnvVars("DEFAULT_LAYOUT"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-authtoken",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action: runServe,
			},
			{
				Name:  "mcp",
				Usage: "Run MCP stdio server, reusing a running API or starting an internal one",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Usage:   "API to proxy to (default http://<host>:<port>)",
						Sources: cli.EnvVars("DRONE_API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:      "tui",
				Usage:     "Fly a drone in the terminal",
				ArgsUsage: "[layout]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "radius",
						Value: tui.DefaultRadius,
						Usage: "Cells shown on each side of the drone",
					},
				},
				Action: runTUI,
			},
			{
				Name:   "layouts",
				Usage:  "Validate obstacle layouts and report coverage",
				Action: runLayouts,
			},
		},
	}
}

// setupLogging configures the package-level logger used everywhere.
func setupLogging(debug bool) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "drone",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	log.SetDefault(logger)
}

// resolveConfigDir returns the layout directory to use. A missing default
// directory degrades to the built-in layout; a missing explicit one is an error.
func resolveConfigDir(dir string, explicit bool) (string, error) {
	if dir == "" {
		return "", nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) && !explicit {
			log.Debug("no layout directory, serving the built-in layout only", "dir", dir)
			return "", nil
		}
		return "", fmt.Errorf("config directory %s: %w", dir, err)
	}
	return dir, nil
}

// initializeServices wires session/config managers and the drone service.
func initializeServices(configDir, defaultLayout string) (service.DroneService, *session.Manager, *config.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if defaultLayout != "" && defaultLayout != configManager.DefaultID() {
		if err := configManager.SetDefault(defaultLayout); err != nil {
			return nil, nil, nil, fmt.Errorf("default layout: %w", err)
		}
	}

	sessionManager := session.NewManager()
	droneService := service.NewDroneService(sessionManager, configManager)

	return droneService, sessionManager, configManager, nil
}

// servicesFromCommand reads the shared flags and initializes services.
func servicesFromCommand(cmd *cli.Command) (service.DroneService, *session.Manager, *config.Manager, error) {
	dir, err := resolveConfigDir(cmd.String("config-dir"), cmd.IsSet("config-dir"))
	if err != nil {
		return nil, nil, nil, err
	}
	return initializeServices(dir, cmd.String("default-layout"))
}

// localBaseURL returns the loopback URL the in-process MCP proxy calls.
func localBaseURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(port)))
}

// newRouter mounts the API at the root and the MCP proxy at /mcp.
func newRouter(apiServer http.Handler, mcpHandler http.Handler) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpHandler)
	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	droneService, sessionManager, configManager, err := servicesFromCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	log.Info("starting", "app", AppName, "version", Version)

	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go sessionManager.RunCleanup(ctx, cleanupInterval, sessionMaxAge)
	go reloadLayouts(ctx, configManager, hangup)

	addr := net.JoinHostPort(cmd.String("host"), fmt.Sprint(cmd.Int("port")))
	mcpClient := mcp.NewClient(localBaseURL(cmd.String("host"), int(cmd.Int("port"))), Version)
	mainRouter := newRouter(api.NewServer(droneService, hub), mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-authtoken"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serverErr:
		stop()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "err", err)
	}

	wg.Wait()
	log.Info("server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
// reloadLayouts drops cached layouts on every hangup so edited files are
// reread. Running sessions keep the layout they started with.
func reloadLayouts(ctx context.Context, configs *config.Manager, hangup <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			dropped := configs.Count()
			configs.RefreshCache()
			log.Info("layout cache cleared", "dropped", dropped)
		}
	}
}

func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-authtoken or NGROK_AUTHTOKEN)")
		return
	}

	log.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error("failed to start ngrok tunnel", "err", err)
		return
	}

	// Closing the tunnel unblocks http.Serve
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error("failed to close ngrok tunnel", "err", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Infof("Ngrok tunnel established: %s", ngrokURL)
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error("ngrok server error", "err", err)
	}
	log.Info("ngrok tunnel closed")
}

// apiAvailable reports whether a drone API answers at baseURL.
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the API on a random loopback port and returns its URL.
func startInternalAPI(ctx context.Context, droneService service.DroneService) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(droneService, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("internal HTTP server error", "err", err)
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runStdioMCP runs an MCP stdio server.
// It reuses a running API when one answers; otherwise it starts a minimal
// internal HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("api-url")
	if baseURL == "" {
		baseURL = localBaseURL(cmd.String("host"), int(cmd.Int("port")))
	}

	log.Info("checking for API server", "url", baseURL)

	if apiAvailable(ctx, baseURL) {
		log.Info("API server found, using it for MCP", "url", baseURL)
	} else {
		log.Info("no API server found, starting internal HTTP server")

		droneService, sessionManager, _, err := servicesFromCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		go sessionManager.RunCleanup(ctx, cleanupInterval, sessionMaxAge)

		internalURL, httpServer, err := startInternalAPI(ctx, droneService)
		if err != nil {
			return err
		}
		defer httpServer.Close()

		log.Info("internal HTTP server started", "url", internalURL)
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL, Version)
	log.Info("MCP stdio server ready", "api", baseURL)

	if err := mcpClient.ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runTUI flies one drone in the terminal without a server.
func runTUI(ctx context.Context, cmd *cli.Command) error {
	_, _, configManager, err := servicesFromCommand(cmd)
	if err != nil {
		return err
	}

	layout := configManager.GetDefault()
	if name := cmd.Args().First(); name != "" {
		if layout, err = configManager.LoadConfig(name); err != nil {
			return err
		}
	}

	sim, err := engine.NewSimulator(layout)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal; keep stray log lines off it
	if cmd.Bool("debug") {
		f, err := tea.LogToFile("drone-tui.log", "")
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetLevel(log.ErrorLevel)
	}

	model := tui.NewModel(sim, int(cmd.Int("radius")))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// runLayouts prints the layout report and fails when any layout is invalid.
func runLayouts(ctx context.Context, cmd *cli.Command) error {
	dir, err := resolveConfigDir(cmd.String("config-dir"), cmd.IsSet("config-dir"))
	if err != nil {
		return err
	}

	invalid, err := writeLayoutReport(os.Stdout, dir)
	if err != nil {
		return err
	}
	if invalid > 0 {
		return cli.Exit(fmt.Sprintf("%d invalid layout(s)", invalid), 1)
	}
	return nil
}
