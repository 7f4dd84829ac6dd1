package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"terrainwalk/api"
	"terrainwalk/game/config"
	"terrainwalk/game/engine"
	"terrainwalk/game/service"
	"terrainwalk/game/session"
	"terrainwalk/render"
	"terrainwalk/transport/mcp"
	"terrainwalk/transport/websocket"
)

const (
	AppName = "Terrain Walk"
	Version = "1.0.0"
)

var (
	port      = flag.Int("port", 8080, "HTTP server port")
	host      = flag.String("host", "localhost", "HTTP server host")
	configDir = flag.String("config-dir", getConfigDirDefault(), "Directory containing map configurations")
	configID  = flag.String("config", "", "Map configuration for play mode (default: built-in island)")
	noClouds  = flag.Bool("no-clouds", false, "Disable cloud animation in play mode")
	debug     = flag.Bool("debug", false, "Enable debug logging")
	version   = flag.Bool("version", false, "Show version information")
)

// getConfigDirDefault returns the default configuration directory.
// It first honors the CONFIG_DIR environment variable, then falls back to "configs".
func getConfigDirDefault() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  play             Open the desktop client with a local engine (default)\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp, mcp   Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Play on the built-in island map\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s server -port 9090  # Run HTTP server on port 9090\n", os.Args[0])
	}
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	args := flag.Args()
	mode := "play"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	configManager, err := config.NewManager(*configDir)
	if err != nil {
		log.Printf("Config directory unavailable (%v), using built-in maps only", err)
		configManager, _ = config.NewManager("")
	}

	switch mode {
	case "play":
		runDesktop(configManager)

	case "server", "http":
		runHTTPServer(initializeServices(configManager))

	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(initializeServices(configManager))

	default:
		log.Fatalf("Unknown mode: %s. Use 'play' (default), 'server', or 'stdio-mcp'", mode)
	}
}

// runDesktop opens the ebiten window backed by a local engine actor.
func runDesktop(configs *config.Manager) {
	cfg, err := configs.Load(*configID)
	if err != nil {
		log.Fatalf("Failed to load map config: %v", err)
	}

	world, err := cfg.WorldMap()
	if err != nil {
		log.Fatalf("Invalid map config %q: %v", cfg.Name, err)
	}

	eng := engine.NewEngine(world)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := eng.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Engine stopped: %v", err)
		}
	}()
	defer eng.Stop()

	anim := cfg.AnimationSettings()
	settings := render.Settings{
		CloudsEnabled: anim.CloudsEnabled && !*noClouds,
		WavesEnabled:  anim.WavesEnabled,
		RiverEnabled:  anim.RiverEnabled,
	}
	ctrl := render.NewController(eng, settings)
	defer ctrl.Shutdown()
	ctrl.Start()

	ebiten.SetWindowSize(world.Width*engine.TileSize, world.Height*engine.TileSize)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", AppName, cfg.Name))

	if err := ebiten.RunGame(ctrl); err != nil {
		log.Fatalf("Game loop failed: %v", err)
	}
}

// initializeServices wires the session manager and the game service.
// It also starts a background cleanup routine to prune stale sessions.
func initializeServices(configManager *config.Manager) service.GameService {
	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	go sessionCleanupRoutine(sessionManager)

	return gameService
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpired(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint.
func runHTTPServer(gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
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

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It tries to reuse
// an external API at http://localhost:8080; if unavailable, it starts a
// minimal internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(gameService service.GameService) {
	var baseURL string

	externalURL := fmt.Sprintf("http://%s:%d", *host, *port)
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/configs")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}
		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Give the listener a moment before the first proxy call.
		time.Sleep(100 * time.Millisecond)
		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := mcpserver.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
