package imcp

// Config is the base configuration used by library mode via New().
type Config struct {
	Pool      PoolConfig      `json:"pool"`
	Query     QueryConfig     `json:"query"`
	Policy    PolicyConfig    `json:"policy"`
	Cache     CacheConfig     `json:"cache"`
	Audit     AuditConfig     `json:"audit"`
	Redaction RedactionConfig `json:"redaction"`
	Hints     []HintRule      `json:"hints"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config
	Connection ConnectionConfig `json:"connection"`
	Server     ServerSettings   `json:"server"`
	Logging    LoggingConfig    `json:"logging"`
}

// ConnectionConfig holds SQL endpoint connection parameters used by CLI mode.
type ConnectionConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	DBName  string `json:"dbname"`
	SSLMode string `json:"sslmode"`
}

// PoolConfig holds connection pool settings. MaxConns also bounds in-flight
// invocations: an acquired pipeline slot corresponds to at most one pooled
// connection.
type PoolConfig struct {
	MaxConns          int    `json:"max_conns"`
	MinConns          int    `json:"min_conns"`
	MaxConnLifetime   string `json:"max_conn_lifetime"`
	MaxConnIdleTime   string `json:"max_conn_idle_time"`
	HealthCheckPeriod string `json:"health_check_period"`
}

// ServerSettings holds HTTP server settings for CLI mode.
type ServerSettings struct {
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, stderr, or file path
}

// QueryConfig holds execution settings.
type QueryConfig struct {
	DefaultTimeoutSeconds int           `json:"default_timeout_seconds"`
	MaxRows               int           `json:"max_rows"`
	RetryBackoffMillis    int           `json:"retry_backoff_millis"`
	TimeoutRules          []TimeoutRule `json:"timeout_rules"`
}

// TimeoutRule maps a tool-name or statement pattern to a specific timeout.
type TimeoutRule struct {
	Pattern        string `json:"pattern"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// PolicyConfig controls schema admission and the action-tool gate.
// AllowedBusinessSchemas empty means every business-data call is refused.
type PolicyConfig struct {
	AllowedBusinessSchemas []string `json:"allowed_business_schemas"`
	EnableActionTools      bool     `json:"enable_action_tools"`
}

// CacheConfig holds service availability cache settings.
type CacheConfig struct {
	ServiceTTL string `json:"service_ttl"` // Go duration, default 5m
}

// AuditConfig holds audit trail settings. Empty Path disables auditing.
type AuditConfig struct {
	Path string `json:"path"`
}

// RedactionConfig holds result redaction rules applied to business-data
// results before they leave the gateway.
type RedactionConfig struct {
	ColumnPatterns []string    `json:"column_patterns"`
	ValueRules     []ValueRule `json:"value_rules"`
}

// ValueRule rewrites matching fragments inside string result values.
type ValueRule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// HintRule maps a remote diagnostic pattern to a remediation message.
// When empty, built-in Db2 for i defaults apply.
type HintRule struct {
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}
