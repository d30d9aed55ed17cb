package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	imcp "github.com/qseries/ibmi-mcp"
	"github.com/qseries/ibmi-mcp/internal/ident"
	"github.com/qseries/ibmi-mcp/internal/meta"

	"github.com/rs/zerolog"
)

func runDoctor() error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", ".goimcp/config.json", "Path to configuration file")
	fs.Parse(os.Args[2:])

	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, *configPath)
}

func doctor(w io.Writer, useColor bool, configPath string) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "goimcp %s\n\n", meta.Version)

	// Load and validate config
	config, ok := doctorValidateConfig(w, useColor, configPath)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'goimcp doctor' again.")
		return nil
	}

	// Probe the live endpoint when credentials are available
	fmt.Fprintln(w)
	if connString := os.Getenv("IBMI_CONNSTRING"); connString != "" {
		doctorProbeEndpoint(w, useColor, connString, config)
	} else {
		fmt.Fprintln(w, "IBMI_CONNSTRING not set, skipping live endpoint checks.")
	}

	// Print agent connection snippets
	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check results.
// Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, configPath string) (*imcp.ServerConfig, bool) {
	allPassed := true

	// Check 1: Config file exists and is valid JSON
	data, err := os.ReadFile(configPath)
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file readable (%s)", configPath))
		allPassed = false
		return nil, allPassed
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config file readable (%s)", configPath))

	var config imcp.ServerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file is valid JSON: %v", err))
		allPassed = false
		return nil, allPassed
	}
	printCheck(w, useColor, true, "Config file is valid JSON")

	// Check 2: connection.dbname is set
	if config.Connection.DBName == "" {
		printCheck(w, useColor, false, "connection.dbname is set")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("connection.dbname is set (%s)", config.Connection.DBName))
	}

	// Check 3: server.port > 0
	if config.Server.Port <= 0 {
		printCheck(w, useColor, false, "server.port is > 0")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("server.port is > 0 (%d)", config.Server.Port))
	}

	// Check 4: Health check path set when enabled
	if config.Server.HealthCheckEnabled {
		if config.Server.HealthCheckPath == "" {
			printCheck(w, useColor, false, "health_check_path is set (required when health_check_enabled)")
			allPassed = false
		} else {
			printCheck(w, useColor, true, fmt.Sprintf("health_check_path is set (%s)", config.Server.HealthCheckPath))
		}
	}

	// Check 5: Allowed business schemas pass identifier validation
	schemasOK := true
	for i, schema := range config.Policy.AllowedBusinessSchemas {
		if _, err := ident.Identifier(schema, "schema"); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("allowed_business_schemas[%d] is a valid identifier: %v", i, err))
			schemasOK = false
			allPassed = false
		}
	}
	if schemasOK && len(config.Policy.AllowedBusinessSchemas) > 0 {
		printCheck(w, useColor, true, fmt.Sprintf("allowed_business_schemas are valid identifiers (%d)", len(config.Policy.AllowedBusinessSchemas)))
	}

	// Check 6: Regex patterns compile
	regexOK := true

	for i, rule := range config.Hints {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("hints[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	for i, pattern := range config.Redaction.ColumnPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("redaction.column_patterns[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	for i, rule := range config.Redaction.ValueRules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("redaction.value_rules[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	for i, rule := range config.Query.TimeoutRules {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("timeout_rules[%d] regex compiles: %v", i, err))
			regexOK = false
			allPassed = false
		}
	}

	if regexOK {
		printCheck(w, useColor, true, "All regex patterns compile")
	}

	return &config, allPassed
}

// doctorProbeEndpoint connects to the SQL endpoint and reports which
// optional services the gateway would have to fall back from.
func doctorProbeEndpoint(w io.Writer, useColor bool, connString string, config *imcp.ServerConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway, err := imcp.New(ctx, connString, config.Config, zerolog.Nop())
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("SQL endpoint connection: %v", err))
		return
	}
	defer gateway.Close(ctx)

	if err := gateway.Ping(ctx); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("SQL endpoint ping: %v", err))
		return
	}
	printCheck(w, useColor, true, "SQL endpoint reachable")

	// Services whose absence triggers a rewrite fallback or a refusal.
	probes := []struct {
		schema  string
		service string
	}{
		{"QSYS2", "SYSTEM_ACTIVITY_INFO"},
		{"QSYS2", "PLAN_CACHE_STATEMENT"},
		{"QSYS2", "INDEX_ADVICE"},
		{"QSYS2", "LOCK_WAITS"},
		{"SYSTOOLS", "JOB_QUEUE_ENTRIES"},
		{"SYSTOOLS", "ENDED_JOB_INFO"},
	}
	for _, p := range probes {
		ok, err := gateway.ServiceExists(ctx, p.schema, p.service)
		if err != nil {
			printCheck(w, useColor, false, fmt.Sprintf("%s.%s probe failed: %v", p.schema, p.service, err))
			continue
		}
		if ok {
			printCheck(w, useColor, true, fmt.Sprintf("%s.%s available", p.schema, p.service))
		} else {
			printCheck(w, useColor, false, fmt.Sprintf("%s.%s unavailable (fallback or hint applies)", p.schema, p.service))
		}
	}
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	if pass {
		if useColor {
			fmt.Fprintf(w, "  \033[32m✓\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✓ %s\n", msg)
		}
	} else {
		if useColor {
			fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

// printAgentSnippets prints MCP connection config snippets for various AI agents.
func printAgentSnippets(w io.Writer, useColor bool, config *imcp.ServerConfig) {
	port := config.Server.Port
	url := fmt.Sprintf("http://localhost:%d/mcp", port)

	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	// Claude Code
	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add --transport http ibmi %s\n\n", url)
	fmt.Fprintf(w, "  Or add to .mcp.json (project scope):\n\n")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "ibmi": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Copilot CLI
	subheading("Copilot CLI (~/.copilot/mcp-config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "ibmi": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Gemini CLI
	subheading("Gemini CLI (~/.gemini/settings.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "ibmi": {
        "httpUrl": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// OpenCode
	subheading("OpenCode (opencode.json)")
	fmt.Fprintf(w, `  {
    "mcp": {
      "ibmi": {
        "type": "remote",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Cursor
	subheading("Cursor (.cursor/mcp.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "ibmi": {
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Windsurf
	subheading("Windsurf (~/.codeium/windsurf/mcp_config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "ibmi": {
        "serverUrl": "%s"
      }
    }
  }
`, url)
}
