package imcp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/qseries/ibmi-mcp/internal/audit"
	"github.com/qseries/ibmi-mcp/internal/guard"
	"github.com/qseries/ibmi-mcp/internal/hint"
	"github.com/qseries/ibmi-mcp/internal/policy"
	"github.com/qseries/ibmi-mcp/internal/redact"
	"github.com/qseries/ibmi-mcp/internal/rewrite"
	"github.com/qseries/ibmi-mcp/internal/servicecache"
	"github.com/qseries/ibmi-mcp/internal/timeout"
)

// IbmiMcp is the core gateway engine. All exported methods are safe for
// concurrent use from multiple goroutines.
type IbmiMcp struct {
	config     Config
	exec       Executor
	semaphore  chan struct{}
	registry   map[string]*ToolDef
	guard      *guard.Checker
	policy     *policy.Policy
	services   *servicecache.Cache
	rewriter   *rewrite.Rewriter
	redactor   *redact.Redactor
	hints      *hint.Matcher
	timeoutMgr *timeout.Manager
	auditor    *audit.Writer // nil when auditing is disabled
	logger     zerolog.Logger
}

// Option is a functional option for New().
type Option func(*options)

type options struct {
	exec         Executor
	modernLimits *bool
}

// WithExecutor injects a custom Executor and skips pool creation.
// connString is ignored when set.
func WithExecutor(e Executor) Option {
	return func(o *options) {
		o.exec = e
	}
}

// WithModernLimits overrides the startup server-generation probe that
// decides whether the FETCH clause may carry a parameter marker.
func WithModernLimits(modern bool) Option {
	return func(o *options) {
		b := modern
		o.modernLimits = &b
	}
}

// Probes QSYS2.SERVICES_INFO for one service. The literal row cap keeps the
// probe independent of the generation the probe result decides.
const serviceProbeSQL = "SELECT 1 FROM QSYS2.SERVICES_INFO WHERE SERVICE_SCHEMA_NAME = ? AND SERVICE_NAME = ? FETCH FIRST 1 ROW ONLY"

// New creates a new IbmiMcp instance.
// connString is the SQL endpoint connection string (must include
// credentials) unless WithExecutor supplies the transport.
// Panics on invalid config. Returns error only for runtime failures.
func New(ctx context.Context, connString string, config Config, logger zerolog.Logger, opts ...Option) (*IbmiMcp, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// --- Config validation (panics on invalid config) ---

	if o.exec == nil && connString == "" {
		panic("imcp: connString must be non-empty")
	}
	if config.Pool.MaxConns <= 0 {
		panic("imcp: pool.max_conns must be > 0")
	}
	if config.Query.DefaultTimeoutSeconds <= 0 {
		panic("imcp: query.default_timeout_seconds must be > 0")
	}
	for _, rule := range config.Query.TimeoutRules {
		if rule.TimeoutSeconds <= 0 {
			panic(fmt.Sprintf("imcp: timeout_rule with pattern %q has timeout_seconds <= 0", rule.Pattern))
		}
	}

	// Apply defaults for zero values
	if config.Query.MaxRows == 0 {
		config.Query.MaxRows = 1000
	}
	if config.Query.MaxRows < 0 {
		panic("imcp: query.max_rows must be > 0")
	}
	if config.Query.RetryBackoffMillis == 0 {
		config.Query.RetryBackoffMillis = 200
	}
	if config.Query.RetryBackoffMillis < 0 {
		panic("imcp: query.retry_backoff_millis must be >= 0")
	}

	serviceTTL := servicecache.DefaultTTL
	if config.Cache.ServiceTTL != "" {
		d, err := time.ParseDuration(config.Cache.ServiceTTL)
		if err != nil {
			panic(fmt.Sprintf("imcp: invalid cache.service_ttl %q: %v", config.Cache.ServiceTTL, err))
		}
		serviceTTL = d
	}

	// --- Transport ---

	exec := o.exec
	if exec == nil {
		var err error
		exec, err = NewPoolExecutor(ctx, connString, config.Pool)
		if err != nil {
			return nil, err
		}
	}

	// --- Initialize internal components ---

	pol := policy.New(config.Policy.AllowedBusinessSchemas, config.Policy.EnableActionTools)
	checker := guard.NewChecker(pol.AllowedSchemas())

	services := servicecache.New(func(ctx context.Context, schema, service string) (bool, error) {
		rs, err := exec.Query(ctx, serviceProbeSQL, 1, schema, service)
		if err != nil {
			return false, err
		}
		return len(rs.Rows) > 0, nil
	}, servicecache.WithTTL(serviceTTL))

	redactor, err := redact.New(config.Redaction.ColumnPatterns, mapValueRules(config.Redaction.ValueRules))
	if err != nil {
		panic(fmt.Sprintf("imcp: %v", err))
	}

	hintRules := mapHintRules(config.Hints)
	if len(hintRules) == 0 {
		hintRules = hint.DefaultRules()
	}
	matcher, err := hint.NewMatcher(hintRules)
	if err != nil {
		panic(fmt.Sprintf("imcp: %v", err))
	}

	timeoutRules := make([]timeout.Rule, len(config.Query.TimeoutRules))
	for i, r := range config.Query.TimeoutRules {
		timeoutRules[i] = timeout.Rule{
			Pattern: r.Pattern,
			Timeout: time.Duration(r.TimeoutSeconds) * time.Second,
		}
	}
	tmgr := timeout.NewManager(timeout.Config{
		DefaultTimeout: time.Duration(config.Query.DefaultTimeoutSeconds) * time.Second,
		Rules:          timeoutRules,
	})

	var auditor *audit.Writer
	if config.Audit.Path != "" {
		auditor, err = audit.OpenFile(config.Audit.Path)
		if err != nil {
			return nil, err
		}
	}

	// --- Resolve server generation ---

	modern := false
	if o.modernLimits != nil {
		modern = *o.modernLimits
	} else {
		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		ok, probeErr := services.ServiceExists(probeCtx, "QSYS2", "SYSTEM_ACTIVITY_INFO")
		cancel()
		if probeErr != nil {
			// Unknown generation executes in legacy form, which every
			// supported level accepts.
			logger.Warn().Err(probeErr).Msg("server generation probe failed, assuming legacy limit clause")
		} else {
			modern = ok
		}
	}

	rewriter := rewrite.New(services.ServiceExists, modern)

	logger.Info().
		Bool("modern_limits", modern).
		Int("tools", len(toolDefs)).
		Strs("business_schemas", pol.BusinessSchemas()).
		Bool("actions_enabled", pol.ActionsEnabled()).
		Msg("gateway initialized")

	return &IbmiMcp{
		config:     config,
		exec:       exec,
		semaphore:  make(chan struct{}, config.Pool.MaxConns),
		registry:   buildRegistry(),
		guard:      checker,
		policy:     pol,
		services:   services,
		rewriter:   rewriter,
		redactor:   redactor,
		hints:      matcher,
		timeoutMgr: tmgr,
		auditor:    auditor,
		logger:     logger,
	}, nil
}

// Close releases the transport and the audit sink. Accepts context for API
// forward-compatibility.
func (m *IbmiMcp) Close(ctx context.Context) {
	m.exec.Close()
	if m.auditor != nil {
		m.auditor.Close()
	}
}

// Ping verifies connectivity to the SQL endpoint.
func (m *IbmiMcp) Ping(ctx context.Context) error {
	return m.exec.Ping(ctx)
}

// ServiceExists reports whether a catalog service is available on the
// connected server, through the availability cache.
func (m *IbmiMcp) ServiceExists(ctx context.Context, schema, service string) (bool, error) {
	return m.services.ServiceExists(ctx, schema, service)
}

func mapValueRules(rules []ValueRule) []redact.ValueRule {
	result := make([]redact.ValueRule, len(rules))
	for i, r := range rules {
		result[i] = redact.ValueRule{Pattern: r.Pattern, Replacement: r.Replacement}
	}
	return result
}

func mapHintRules(rules []HintRule) []hint.Rule {
	result := make([]hint.Rule, len(rules))
	for i, r := range rules {
		result[i] = hint.Rule{Pattern: r.Pattern, Message: r.Message}
	}
	return result
}
