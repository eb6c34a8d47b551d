// Command slide-puzzle starts the sliding-tile puzzle server.
//
// It supports two modes:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging, version output,
// and optional ngrok tunneling for external access during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/slide-puzzle/api"
	"github.com/wricardo/slide-puzzle/game/config"
	"github.com/wricardo/slide-puzzle/game/service"
	"github.com/wricardo/slide-puzzle/game/session"
	"github.com/wricardo/slide-puzzle/transport/mcp"
	"github.com/wricardo/slide-puzzle/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Slide Puzzle Server"
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", getConfigDirDefault(), "Directory containing puzzle configurations")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getConfigDirDefault honors CONFIG_DIR, then falls back to "configs".
func getConfigDirDefault() string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		return configDir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("Error loading .env file")
		}
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	configureLogging(*debug)

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	// stdout carries the MCP protocol in stdio mode
	if isStdioMode(mode) {
		log.SetOutput(os.Stderr)
	}

	log.WithFields(log.Fields{"version": Version, "mode": mode}).Infof("Starting %s", AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, err := initializeServices(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize services")
	}

	switch {
	case isStdioMode(mode):
		runStdioMCPWithInternalServer(gameService)
	case mode == "server" || mode == "http":
		runHTTPServer(ctx, cancel, gameService)
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

func isStdioMode(mode string) bool {
	return mode == "stdio-mcp" || mode == "mcp-stdio" || mode == "mcp"
}

func configureLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
		log.SetReportCaller(false)
	}
}

// initializeServices wires the session and config managers into the game
// service and starts pruning idle sessions until ctx is done.
func initializeServices(ctx context.Context) (service.GameService, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	go sessionManager.RunCleanup(ctx, session.DefaultCleanupInterval, session.DefaultMaxAge)

	return service.NewGameService(sessionManager, configManager), nil
}

// newRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp.
// MCP tool calls go back through the API at baseURL.
func newRouter(apiServer http.Handler, baseURL string) http.Handler {
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runHTTPServer starts the HTTP server with the REST API, WebSocket hub, and
// /mcp endpoint. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cancel context.CancelFunc, gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	mainRouter := newRouter(apiServer, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.WithField("addr", addr).Info("HTTP server listening")
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	if settings := resolveNgrokSettings(); settings.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, settings, mainRouter)
		}()
	}

	sig := <-stop
	log.WithField("signal", sig).Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info("Server stopped")
}

type ngrokSettings struct {
	enabled   bool
	authToken string
	domain    string
}

// resolveNgrokSettings merges the ngrok flags with their environment
// fallbacks. Flags win.
func resolveNgrokSettings() ngrokSettings {
	s := ngrokSettings{
		enabled:   *ngrokEnabled,
		authToken: *ngrokAuth,
		domain:    *ngrokDomain,
	}
	if !s.enabled {
		if env := os.Getenv("NGROK_ENABLED"); env == "true" || env == "1" {
			s.enabled = true
		}
	}
	if s.authToken == "" {
		s.authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if s.authToken == "" {
		s.authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if s.domain == "" {
		s.domain = os.Getenv("NGROK_DOMAIN")
	}
	return s
}

func runNgrokTunnel(ctx context.Context, settings ngrokSettings, handler http.Handler) {
	if settings.authToken == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if settings.domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.domain))
		log.WithField("domain", settings.domain).Info("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(settings.authToken))
	if err != nil {
		log.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.WithField("url", ngrokURL).Info("Ngrok tunnel established")
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("Ngrok server error")
	}
	log.Info("Ngrok tunnel closed")
}

// apiAvailable reports whether a puzzle API answers its health check at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API at
// http://localhost:8080 when one is up, otherwise it starts an internal one
// on a random loopback port.
func runStdioMCPWithInternalServer(gameService service.GameService) {
	externalURL := "http://localhost:8080"
	log.WithField("url", externalURL).Info("Checking for external API server")

	baseURL := externalURL
	if apiAvailable(externalURL) {
		log.Info("External API server found, using it for MCP")
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.WithError(err).Fatal("Failed to get available port")
		}
		baseURL = "http://" + listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("Internal HTTP server error")
			}
		}()
		log.WithField("url", baseURL).Info("Internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.WithError(err).Fatal("MCP stdio server error")
	}
}
