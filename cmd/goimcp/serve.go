package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	imcp "github.com/qseries/ibmi-mcp"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func runServe() error {
	ctx := context.Background()

	// 1. Load .env (missing file is fine) and the JSON config
	_ = godotenv.Load()

	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyEnvOverrides(serverConfig)

	if serverConfig.Server.Port <= 0 {
		panic("goimcp: server.port must be > 0")
	}

	// 2. Resolve connection string
	connString := os.Getenv("IBMI_CONNSTRING")
	if connString == "" {
		username := promptInput("Username: ")
		password := promptPassword("Password: ")
		connString = buildConnString(serverConfig.Connection, username, password)
	}

	// 3. Setup logger
	logger := setupLogger(serverConfig.Logging)

	// 4. Create the gateway engine
	gateway, err := imcp.New(ctx, connString, serverConfig.Config, logger)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}
	defer gateway.Close(ctx)

	// 5. Test the SQL endpoint connection
	logger.Info().Msg("testing SQL endpoint connection")
	if err := gateway.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("SQL endpoint connection test failed")
		return fmt.Errorf("SQL endpoint connection test failed: %w", err)
	}
	logger.Info().Msg("SQL endpoint connection test successful")

	// 6. Create MCP server with initialize lifecycle logging
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("goimcp", "1.0.0",
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)

	imcp.RegisterMCPTools(mcpServer, gateway)

	// 7. Start HTTP server with optional health check
	addr := fmt.Sprintf(":%d", serverConfig.Server.Port)
	mux := http.NewServeMux()

	// Health check endpoint (process liveness only, not endpoint connectivity)
	if serverConfig.Server.HealthCheckEnabled {
		if serverConfig.Server.HealthCheckPath == "" {
			panic("goimcp: health_check_path must be set when health_check_enabled is true")
		}
		mux.HandleFunc(serverConfig.Server.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Manually register the MCP handler — Start() does NOT register
	// when a custom *http.Server is provided via WithStreamableHTTPServer.
	mux.Handle("/mcp", streamableServer)

	logger.Info().Int("port", serverConfig.Server.Port).Msg("starting goimcp server")
	return streamableServer.Start(addr)
}

func loadServerConfig() (*imcp.ServerConfig, error) {
	configPath := os.Getenv("IMCP_CONFIG_PATH")
	if configPath == "" {
		configPath = ".goimcp/config.json"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && os.Getenv("IMCP_CONFIG_PATH") == "" {
			// No config file: run on env vars and defaults alone.
			return defaultServerConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := defaultServerConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func defaultServerConfig() *imcp.ServerConfig {
	return &imcp.ServerConfig{
		Config: imcp.Config{
			Pool:  imcp.PoolConfig{MaxConns: 4},
			Query: imcp.QueryConfig{DefaultTimeoutSeconds: 30},
		},
		Server: imcp.ServerSettings{Port: 8040},
	}
}

// applyEnvOverrides layers recognized environment keys over the file
// config. IBMI_ROUTER_CONFIDENCE_THRESHOLD belongs to the external agent
// and is accepted without effect so shared .env files load cleanly.
func applyEnvOverrides(config *imcp.ServerConfig) {
	if v := os.Getenv("IBMI_ALLOWED_BUSINESS_SCHEMAS"); v != "" {
		var schemas []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				schemas = append(schemas, s)
			}
		}
		config.Policy.AllowedBusinessSchemas = schemas
	}
	if v := os.Getenv("IBMI_ENABLE_ACTION_TOOLS"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y":
			config.Policy.EnableActionTools = true
		}
	}
	if v := os.Getenv("IBMI_AUDIT_LOG_PATH"); v != "" {
		config.Audit.Path = v
	}
	_ = os.Getenv("IBMI_ROUTER_CONFIDENCE_THRESHOLD")
}

func buildConnString(conn imcp.ConnectionConfig, username, password string) string {
	parts := []string{}
	if conn.Host != "" {
		parts = append(parts, fmt.Sprintf("host=%s", conn.Host))
	}
	if conn.Port > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", conn.Port))
	}
	if conn.DBName != "" {
		parts = append(parts, fmt.Sprintf("dbname=%s", conn.DBName))
	}
	if username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", username))
	}
	if password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", password))
	}
	if conn.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", conn.SSLMode))
	}
	return strings.Join(parts, " ")
}

func setupLogger(config imcp.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var output io.Writer = os.Stderr
	if config.Output == "stdout" {
		output = os.Stdout
	} else if config.Output != "" && config.Output != "stderr" {
		f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func promptInput(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var input string
	fmt.Scanln(&input)
	return input
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return ""
	}
	return string(password)
}
