package imcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/qseries/ibmi-mcp/internal/guard"
)

// --- Fake executor ---

type execCall struct {
	sql  string
	args []any
}

type queryResponse struct {
	rs  *ResultSet
	err error
}

// fakeExecutor answers service-availability probes from the services map
// and everything else from the response queue, in order. The last response
// repeats once the queue is exhausted.
type fakeExecutor struct {
	mu       sync.Mutex
	services map[string]bool // "SCHEMA.SERVICE" -> available

	queries   []execCall
	responses []queryResponse

	execs        []execCall
	execAffected int64
	execErr      error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{services: map[string]bool{}}
}

func (f *fakeExecutor) respond(rs *ResultSet, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, queryResponse{rs: rs, err: err})
}

func (f *fakeExecutor) Query(ctx context.Context, sql string, maxRows int, args ...any) (*ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sql == serviceProbeSQL {
		key := fmt.Sprintf("%v.%v", args[0], args[1])
		if f.services[key] {
			return &ResultSet{Columns: []string{"00001"}, Rows: [][]any{{1}}}, nil
		}
		return &ResultSet{Columns: []string{"00001"}}, nil
	}

	f.queries = append(f.queries, execCall{sql: sql, args: args})
	if len(f.responses) == 0 {
		return &ResultSet{}, nil
	}
	r := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return r.rs, r.err
}

func (f *fakeExecutor) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return f.execAffected, f.execErr
}

func (f *fakeExecutor) Ping(ctx context.Context) error { return nil }
func (f *fakeExecutor) Close()                         {}

func (f *fakeExecutor) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeExecutor) lastQuery() execCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

// --- Helpers ---

func testConfig() Config {
	return Config{
		Pool:  PoolConfig{MaxConns: 4},
		Query: QueryConfig{DefaultTimeoutSeconds: 5, RetryBackoffMillis: 1},
	}
}

func newTestGateway(t *testing.T, config Config, fe *fakeExecutor, opts ...Option) *IbmiMcp {
	t.Helper()
	allOpts := append([]Option{WithExecutor(fe), WithModernLimits(true)}, opts...)
	m, err := New(context.Background(), "", config, zerolog.Nop(), allOpts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { m.Close(context.Background()) })
	return m
}

func wantFailure(t *testing.T, out *InvokeOutput, kind FailureKind) *ToolError {
	t.Helper()
	if out.Error == nil {
		t.Fatalf("expected %s error, got success: %+v", kind, out)
	}
	if out.Error.Kind != kind {
		t.Fatalf("expected error kind %s, got %s (%s)", kind, out.Error.Kind, out.Error.Message)
	}
	return out.Error
}

// --- Pipeline refusals ---

func TestInvokeUnknownTool(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "no-such-tool"})
	wantFailure(t, out, FailInvalidParameter)
	if fe.queryCount() != 0 {
		t.Errorf("expected no statements executed, got %d", fe.queryCount())
	}
}

func TestInvokeGuardRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sql      string
		wantRule string
	}{
		{"semicolon", "SELECT 1 FROM SYSIBM.SYSDUMMY1; DROP TABLE X", guard.RuleSemicolon},
		{"comment marker", "SELECT 1 -- hidden", guard.RuleComment},
		{"update statement", "UPDATE QSYS2.SYSTABLES SET TABLE_NAME = 'X'", guard.RuleFirstToken},
		{"forbidden keyword", "SELECT 1 FROM SYSIBM.SYSDUMMY1 WHERE QCMDEXC('DLTLIB') = 1", guard.RuleForbiddenKeyword},
		{"empty statement", "   ", guard.RuleEmpty},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fe := newFakeExecutor()
			m := newTestGateway(t, testConfig(), fe)

			out := m.Invoke(context.Background(), InvokeInput{
				Tool: "run-sql-query",
				Args: map[string]any{"sql": tt.sql},
			})

			if tt.sql == "   " {
				// Blank text trims to empty and is caught as a missing
				// required parameter before the guard runs.
				wantFailure(t, out, FailInvalidParameter)
			} else {
				toolErr := wantFailure(t, out, FailUnsafeStatement)
				if toolErr.Rule != tt.wantRule {
					t.Errorf("expected rule %q, got %q", tt.wantRule, toolErr.Rule)
				}
			}
			if fe.queryCount() != 0 {
				t.Errorf("rejected statement reached the executor: %+v", fe.lastQuery())
			}
		})
	}
}

func TestInvokeInvalidIdentifier(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{
		Tool: "list-tables-in-schema",
		Args: map[string]any{"schema": "BAD;SCHEMA"},
	})
	wantFailure(t, out, FailInvalidIdentifier)
	if fe.queryCount() != 0 {
		t.Errorf("invalid identifier reached the executor")
	}
}

func TestInvokeSchemaNotAllowed(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	config := testConfig()
	config.Policy.AllowedBusinessSchemas = []string{"SALES"}
	m := newTestGateway(t, config, fe)

	out := m.Invoke(context.Background(), InvokeInput{
		Tool: "query-user-table",
		Args: map[string]any{"schema": "PAYROLL", "table": "EMPLOYEES"},
	})
	wantFailure(t, out, FailSchemaNotAllowed)
	if fe.queryCount() != 0 {
		t.Errorf("disallowed schema reached the executor")
	}
}

func TestInvokeActionsDisabledBeforeValidation(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	m := newTestGateway(t, testConfig(), fe)

	// Arguments are deliberately absent: the action gate must answer
	// before parameter validation gets a chance to complain.
	out := m.Invoke(context.Background(), InvokeInput{Tool: "log-performance-metrics"})
	toolErr := wantFailure(t, out, FailActionsDisabled)
	if toolErr.Hint == "" {
		t.Error("expected a remediation hint on the actions-disabled error")
	}
	if len(fe.execs) != 0 {
		t.Errorf("disabled action tool reached the executor")
	}
}

func TestInvokeActionToolWhenEnabled(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.execAffected = 1
	config := testConfig()
	config.Policy.EnableActionTools = true
	m := newTestGateway(t, config, fe)

	out := m.Invoke(context.Background(), InvokeInput{
		Tool: "log-performance-metrics",
		Args: map[string]any{"cpu_usage": 42.5, "asp_usage": 61.0},
	})
	if out.Error != nil {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
	if out.RowsAffected != 1 {
		t.Errorf("expected 1 row affected, got %d", out.RowsAffected)
	}
	if len(fe.execs) != 1 {
		t.Fatalf("expected 1 exec call, got %d", len(fe.execs))
	}
	if len(fe.execs[0].args) != 2 {
		t.Errorf("expected 2 bind args, got %v", fe.execs[0].args)
	}
}

// --- Execution, retry, and the remote boundary ---

func TestInvokeRetriesTransientErrorOnce(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.respond(nil, errors.New("connection reset by peer"))
	fe.respond(&ResultSet{Columns: []string{"A"}, Rows: [][]any{{1}}}, nil)
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "get-system-status"})
	if out.Error != nil {
		t.Fatalf("expected retry to succeed, got %+v", out.Error)
	}
	if out.RowCount != 1 {
		t.Errorf("expected 1 row, got %d", out.RowCount)
	}
	if fe.queryCount() != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", fe.queryCount())
	}
}

func TestInvokeTransientErrorFailsAfterSecondAttempt(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.respond(nil, errors.New("connection reset by peer"))
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "get-system-status"})
	wantFailure(t, out, FailExecutionFailed)
	if fe.queryCount() != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", fe.queryCount())
	}
}

func TestInvokeRemoteRejectionNeverRetried(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.respond(nil, &pgconn.PgError{Code: "42704", Message: "QSYS2.NOPE not found"})
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "get-system-status"})
	toolErr := wantFailure(t, out, FailRemoteRejected)
	if !strings.Contains(toolErr.Diagnostic, "SQLSTATE 42704") {
		t.Errorf("expected SQLSTATE in diagnostic, got %q", toolErr.Diagnostic)
	}
	if toolErr.Hint == "" {
		t.Error("expected a built-in hint for the not-found diagnostic")
	}
	if fe.queryCount() != 1 {
		t.Errorf("remote rejection must not be retried, got %d attempts", fe.queryCount())
	}
}

func TestInvokeTruncationPropagates(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.respond(&ResultSet{Columns: []string{"A"}, Rows: [][]any{{1}, {2}}, Truncated: true}, nil)
	config := testConfig()
	config.Query.MaxRows = 2
	m := newTestGateway(t, config, fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "get-system-status"})
	if out.Error != nil {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
	if !out.Truncated {
		t.Error("expected Truncated to be set")
	}
}

// --- Capability rewrites ---

func TestInvokeFallbackTemplate(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.services["QSYS2.PLAN_CACHE_STATEMENT"] = false
	fe.services["QSYS2.ACTIVE_QUERY_INFO"] = true
	fe.respond(&ResultSet{Columns: []string{"A"}, Rows: [][]any{{1}}}, nil)
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "plan-cache-top"})
	if out.Error != nil {
		t.Fatalf("expected fallback to succeed, got %+v", out.Error)
	}
	if !out.Fallback {
		t.Error("expected Fallback to be set")
	}
	if !strings.Contains(fe.lastQuery().sql, "ACTIVE_QUERY_INFO") {
		t.Errorf("expected fallback statement, got %q", fe.lastQuery().sql)
	}
}

func TestInvokePrimaryTemplatePreferred(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.services["QSYS2.PLAN_CACHE_STATEMENT"] = true
	fe.respond(&ResultSet{Columns: []string{"A"}, Rows: [][]any{{1}}}, nil)
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "plan-cache-top"})
	if out.Error != nil {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
	if out.Fallback {
		t.Error("primary template available, Fallback must not be set")
	}
	if !strings.Contains(fe.lastQuery().sql, "PLAN_CACHE_STATEMENT") {
		t.Errorf("expected primary statement, got %q", fe.lastQuery().sql)
	}
}

func TestInvokeCapabilityUnavailable(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	// ENDED_JOB_INFO has no fallback; its absence is a typed refusal.
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{Tool: "ended-jobs"})
	toolErr := wantFailure(t, out, FailCapabilityUnavailable)
	if toolErr.Hint == "" {
		t.Error("expected an upgrade hint on the capability error")
	}
	if fe.queryCount() != 0 {
		t.Errorf("unavailable capability must not execute, got %d calls", fe.queryCount())
	}
}

func TestInvokeJobDetailFallback(t *testing.T) {
	t.Parallel()

	t.Run("basic columns when catalog entry is absent", func(t *testing.T) {
		t.Parallel()
		fe := newFakeExecutor()
		fe.respond(&ResultSet{Columns: []string{"JOB_NAME"}, Rows: [][]any{{"X"}}}, nil)
		m := newTestGateway(t, testConfig(), fe)

		out := m.Invoke(context.Background(), InvokeInput{
			Tool: "top-cpu-jobs",
			Args: map[string]any{"subsystems": "QBATCH", "limit": 5},
		})
		if out.Error != nil {
			t.Fatalf("expected fallback to succeed, got %+v", out.Error)
		}
		if !out.Fallback {
			t.Error("expected Fallback to be set")
		}
		call := fe.lastQuery()
		if strings.Contains(call.sql, "DETAILED_INFO") {
			t.Errorf("fallback statement must not request detail columns, got %q", call.sql)
		}
		// The subsystem and user filters still bind on the fallback form.
		if len(call.args) != 3 || call.args[0] != "QBATCH" || call.args[1] != nil || call.args[2] != 5 {
			t.Errorf("expected args [QBATCH <nil> 5], got %v", call.args)
		}
	})

	t.Run("detail columns when available", func(t *testing.T) {
		t.Parallel()
		fe := newFakeExecutor()
		fe.services["QSYS2.ACTIVE_JOB_INFO"] = true
		fe.respond(&ResultSet{Columns: []string{"JOB_NAME"}, Rows: [][]any{{"X"}}}, nil)
		m := newTestGateway(t, testConfig(), fe)

		out := m.Invoke(context.Background(), InvokeInput{Tool: "top-cpu-jobs"})
		if out.Error != nil {
			t.Fatalf("unexpected error: %+v", out.Error)
		}
		if out.Fallback {
			t.Error("detail form available, Fallback must not be set")
		}
		if !strings.Contains(fe.lastQuery().sql, "DETAILED_INFO => 'ALL'") {
			t.Errorf("expected detail statement, got %q", fe.lastQuery().sql)
		}
	})
}

// --- Argument hygiene ---

func TestInvokeUnknownArgumentRejected(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{
		Tool: "top-cpu-jobs",
		Args: map[string]any{"cpu_threshold": 80},
	})
	toolErr := wantFailure(t, out, FailInvalidParameter)
	if !strings.Contains(toolErr.Message, "cpu_threshold") {
		t.Errorf("refusal should name the offending argument, got %q", toolErr.Message)
	}
	if fe.queryCount() != 0 {
		t.Errorf("unknown argument must not execute, got %d calls", fe.queryCount())
	}
}

func TestInvokeRunSQLLimitSlotRejected(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	m := newTestGateway(t, testConfig(), fe)

	out := m.Invoke(context.Background(), InvokeInput{
		Tool: "run-sql-query",
		Args: map[string]any{"sql": "SELECT SERVICE_NAME FROM QSYS2.SERVICES_INFO {{LIMIT}}"},
	})
	wantFailure(t, out, FailInvalidParameter)
	if fe.queryCount() != 0 {
		t.Errorf("rejected statement must not execute, got %d calls", fe.queryCount())
	}
}

func TestInvokeRepeatedCallsBindIdentically(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.services["QSYS2.ACTIVE_JOB_INFO"] = true
	fe.respond(&ResultSet{Columns: []string{"JOB_NAME"}, Rows: [][]any{{"X"}}}, nil)
	m := newTestGateway(t, testConfig(), fe)

	input := InvokeInput{
		Tool: "top-cpu-jobs",
		Args: map[string]any{"subsystems": "QBATCH,QINTER", "users": "APPUSER", "limit": 7},
	}
	for i := 0; i < 2; i++ {
		if out := m.Invoke(context.Background(), input); out.Error != nil {
			t.Fatalf("call %d failed: %+v", i, out.Error)
		}
	}
	if fe.queryCount() != 2 {
		t.Fatalf("expected 2 executions, got %d", fe.queryCount())
	}
	fe.mu.Lock()
	first, second := fe.queries[0], fe.queries[1]
	fe.mu.Unlock()
	if first.sql != second.sql {
		t.Errorf("repeated call changed the statement:\n%q\n%q", first.sql, second.sql)
	}
	if !reflect.DeepEqual(first.args, second.args) {
		t.Errorf("repeated call changed the bind args: %v vs %v", first.args, second.args)
	}
}

func TestInvokeCertificateExpiryWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		args     map[string]any
		wantDays any
	}{
		{"default window", nil, 30},
		{"window clamped to a year", map[string]any{"days": 9999}, 365},
		{"explicit window", map[string]any{"days": 14}, 14},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fe := newFakeExecutor()
			fe.services["QSYS2.CERTIFICATE_INFO"] = true
			fe.respond(&ResultSet{Columns: []string{"CERTIFICATE_LABEL"}}, nil)
			m := newTestGateway(t, testConfig(), fe)

			out := m.Invoke(context.Background(), InvokeInput{
				Tool: "certificate-info-expiring",
				Args: tc.args,
			})
			if out.Error != nil {
				t.Fatalf("unexpected error: %+v", out.Error)
			}
			call := fe.lastQuery()
			if len(call.args) == 0 || call.args[0] != tc.wantDays {
				t.Errorf("expected expiry window %v, got %v", tc.wantDays, call.args)
			}
		})
	}
}

// --- Limit dialect ---

func TestInvokeLimitDialect(t *testing.T) {
	t.Parallel()

	t.Run("modern appends parameter marker", func(t *testing.T) {
		t.Parallel()
		fe := newFakeExecutor()
		fe.respond(&ResultSet{Columns: []string{"A"}}, nil)
		m := newTestGateway(t, testConfig(), fe, WithModernLimits(true))

		out := m.Invoke(context.Background(), InvokeInput{
			Tool: "disk-hotspots",
			Args: map[string]any{"limit": 7},
		})
		if out.Error != nil {
			t.Fatalf("unexpected error: %+v", out.Error)
		}
		call := fe.lastQuery()
		if !strings.Contains(call.sql, "FETCH FIRST ? ROWS ONLY") {
			t.Errorf("expected parameter marker clause, got %q", call.sql)
		}
		if len(call.args) == 0 || call.args[len(call.args)-1] != 7 {
			t.Errorf("expected trailing limit arg 7, got %v", call.args)
		}
	})

	t.Run("legacy inlines literal", func(t *testing.T) {
		t.Parallel()
		fe := newFakeExecutor()
		fe.respond(&ResultSet{Columns: []string{"A"}}, nil)
		m := newTestGateway(t, testConfig(), fe, WithModernLimits(false))

		out := m.Invoke(context.Background(), InvokeInput{
			Tool: "disk-hotspots",
			Args: map[string]any{"limit": 7},
		})
		if out.Error != nil {
			t.Fatalf("unexpected error: %+v", out.Error)
		}
		call := fe.lastQuery()
		if !strings.Contains(call.sql, "FETCH FIRST 7 ROWS ONLY") {
			t.Errorf("expected inlined literal clause, got %q", call.sql)
		}
		if strings.Contains(call.sql, "?") && len(call.args) != 0 {
			t.Errorf("expected no bind args on legacy path, got %v", call.args)
		}
	})
}

func TestInvokeLimitClampedSilently(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	fe.respond(&ResultSet{Columns: []string{"A"}}, nil)
	m := newTestGateway(t, testConfig(), fe)

	// disk-hotspots caps at 1000; an absurd request succeeds at the cap.
	out := m.Invoke(context.Background(), InvokeInput{
		Tool: "disk-hotspots",
		Args: map[string]any{"limit": 999999},
	})
	if out.Error != nil {
		t.Fatalf("expected clamp, not refusal: %+v", out.Error)
	}
	call := fe.lastQuery()
	if call.args[len(call.args)-1] != 1000 {
		t.Errorf("expected limit clamped to 1000, got %v", call.args[len(call.args)-1])
	}
}

// --- Redaction ---

func TestInvokeRedactionBusinessOnly(t *testing.T) {
	t.Parallel()
	config := testConfig()
	config.Policy.AllowedBusinessSchemas = []string{"SALES"}
	config.Redaction.ColumnPatterns = []string{"ssn"}

	rows := func() *ResultSet {
		return &ResultSet{
			Columns: []string{"NAME", "SSN"},
			Rows:    [][]any{{"ALICE", "123-45-6789"}},
		}
	}

	t.Run("business result masked", func(t *testing.T) {
		t.Parallel()
		fe := newFakeExecutor()
		fe.respond(rows(), nil)
		m := newTestGateway(t, config, fe)

		out := m.Invoke(context.Background(), InvokeInput{
			Tool: "query-user-table",
			Args: map[string]any{"schema": "SALES", "table": "CUSTOMERS"},
		})
		if out.Error != nil {
			t.Fatalf("unexpected error: %+v", out.Error)
		}
		if out.Rows[0][1] != "[REDACTED]" {
			t.Errorf("expected SSN masked, got %v", out.Rows[0][1])
		}
		if out.Rows[0][0] != "ALICE" {
			t.Errorf("unmatched column must pass through, got %v", out.Rows[0][0])
		}
	})

	t.Run("system result untouched", func(t *testing.T) {
		t.Parallel()
		fe := newFakeExecutor()
		fe.respond(rows(), nil)
		m := newTestGateway(t, config, fe)

		out := m.Invoke(context.Background(), InvokeInput{Tool: "get-system-status"})
		if out.Error != nil {
			t.Fatalf("unexpected error: %+v", out.Error)
		}
		if out.Rows[0][1] != "123-45-6789" {
			t.Errorf("system-introspection results must not be redacted, got %v", out.Rows[0][1])
		}
	})
}

// --- Audit trail ---

func TestInvokeAuditTrail(t *testing.T) {
	t.Parallel()
	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	config := testConfig()
	config.Audit.Path = auditPath
	config.Policy.AllowedBusinessSchemas = []string{"SALES"}

	fe := newFakeExecutor()
	fe.respond(&ResultSet{Columns: []string{"A"}, Rows: [][]any{{1}}}, nil)
	m := newTestGateway(t, config, fe)

	ok := m.Invoke(context.Background(), InvokeInput{
		Tool: "disk-hotspots",
		Args: map[string]any{"limit": 999999},
	})
	if ok.Error != nil {
		t.Fatalf("unexpected error: %+v", ok.Error)
	}
	if ok.AuditID == "" {
		t.Error("expected an audit ID on success")
	}

	refused := m.Invoke(context.Background(), InvokeInput{Tool: "no-such-tool"})
	if refused.AuditID == "" {
		t.Error("expected an audit ID on refusal")
	}

	business := m.Invoke(context.Background(), InvokeInput{
		Tool: "describe-user-table",
		Args: map[string]any{"schema": "SALES", "table": "CUSTOMERS"},
	})
	if business.Error != nil {
		t.Fatalf("unexpected error: %+v", business.Error)
	}

	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("expected 3 audit lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("audit line is not valid JSON: %v", err)
	}
	if first["tool"] != "disk-hotspots" || first["outcome"] != "ok" {
		t.Errorf("unexpected first entry: %v", first)
	}
	if first["limit"] != float64(1000) {
		t.Errorf("expected clamped limit 1000 recorded, got %v", first["limit"])
	}

	var second map[string]any
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatalf("audit line is not valid JSON: %v", err)
	}
	if second["outcome"] != "refused" || second["failure"] != "invalid_parameter" {
		t.Errorf("unexpected refusal entry: %v", second)
	}

	// Business-data parameter values stay out of the trail; only a count
	// is recorded.
	if bytes.Contains(lines[2], []byte("CUSTOMERS")) {
		t.Errorf("business parameter value leaked into audit entry: %s", lines[2])
	}
	var third map[string]any
	if err := json.Unmarshal(lines[2], &third); err != nil {
		t.Fatalf("audit line is not valid JSON: %v", err)
	}
	if third["category"] != "business-data" {
		t.Errorf("unexpected category: %v", third["category"])
	}
	if _, hasParams := third["params"]; hasParams {
		t.Errorf("business entry must not carry parameter values: %v", third)
	}
	if third["param_count"] != float64(3) {
		t.Errorf("expected param_count 3, got %v", third["param_count"])
	}
}

// --- Concurrency bound ---

func TestInvokeSemaphoreRespectsCancellation(t *testing.T) {
	t.Parallel()
	fe := newFakeExecutor()
	config := testConfig()
	config.Pool.MaxConns = 1
	m := newTestGateway(t, config, fe)

	// Occupy the only slot.
	m.semaphore <- struct{}{}
	defer func() { <-m.semaphore }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := m.Invoke(ctx, InvokeInput{Tool: "get-system-status"})
	wantFailure(t, out, FailExecutionFailed)
}
