package imcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qseries/ibmi-mcp/internal/audit"
	"github.com/qseries/ibmi-mcp/internal/guard"
	"github.com/qseries/ibmi-mcp/internal/ident"
	"github.com/qseries/ibmi-mcp/internal/policy"
	"github.com/qseries/ibmi-mcp/internal/rewrite"
)

// Invoke runs the full pipeline for one tool call and returns only
// InvokeOutput. Every denial or failure is converted to output.Error — a
// typed ToolError — so callers never need to check a Go error. The process
// never terminates on a pipeline failure.
func (m *IbmiMcp) Invoke(ctx context.Context, input InvokeInput) *InvokeOutput {
	startTime := time.Now()

	// 1. Acquire pipeline slot (respects context cancellation to prevent deadlock)
	select {
	case m.semaphore <- struct{}{}:
	case <-ctx.Done():
		return m.refuse(input, nil, startTime, &ToolError{
			Kind:    FailExecutionFailed,
			Message: fmt.Sprintf("failed to acquire pipeline slot: all %d slots are in use, context cancelled while waiting: %v", cap(m.semaphore), ctx.Err()),
		})
	}
	defer func() { <-m.semaphore }()

	// 2. Registry lookup
	def, ok := m.registry[input.Tool]
	if !ok {
		return m.refuse(input, nil, startTime, &ToolError{
			Kind:    FailInvalidParameter,
			Message: fmt.Sprintf("unknown tool %q", input.Tool),
		})
	}

	// 3. Action gate, before any parameter validation
	if def.Category == policy.CategoryAction && !m.policy.ActionsEnabled() {
		return m.refuse(input, def, startTime, m.toToolError(&policy.ActionsError{}))
	}

	// 4. Validate parameters per the tool descriptor
	params, limit, err := m.bindParams(def, input.Args)
	if err != nil {
		return m.refuse(input, def, startTime, m.toToolError(err))
	}

	// 5. Schema admission
	if err := m.admit(def, params); err != nil {
		return m.refuse(input, def, startTime, m.toToolError(err))
	}

	// 6. Resolve the statement and rewrite for the connected server
	tpl, args, err := def.Bind(params)
	if err != nil {
		return m.refuse(input, def, startTime, m.toToolError(err))
	}
	rewritten, err := m.rewriter.Rewrite(ctx, tpl, args, limit)
	if err != nil {
		return m.refuse(input, def, startTime, m.toToolError(err))
	}

	// 7. Timed execution
	execTimeout := m.timeoutMgr.For(def.Name, rewritten.SQL)
	execCtx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	output := &InvokeOutput{TemplateID: rewritten.TemplateID, Fallback: rewritten.Fallback}
	var retried bool
	if def.Write {
		affected, execErr := m.exec.Exec(execCtx, rewritten.SQL, rewritten.Args...)
		if execErr != nil {
			return m.fail(input, def, rewritten, limit, retried, startTime, m.toToolError(execErr))
		}
		output.RowsAffected = affected
	} else {
		backoff := time.Duration(m.config.Query.RetryBackoffMillis) * time.Millisecond
		var rs *ResultSet
		var execErr error
		rs, retried, execErr = queryWithRetry(execCtx, m.exec, rewritten.SQL, m.config.Query.MaxRows, backoff, rewritten.Args)
		if execErr != nil {
			return m.fail(input, def, rewritten, limit, retried, startTime, m.toToolError(execErr))
		}

		// 8. Redaction applies to business-data results only
		rows := rs.Rows
		if def.Category == policy.CategoryBusiness && m.redactor.HasRules() {
			rows = m.redactor.Apply(rs.Columns, rows)
		}
		output.Columns = rs.Columns
		output.Rows = rows
		output.RowCount = len(rows)
		output.Truncated = rs.Truncated
	}
	output.ElapsedMS = time.Since(startTime).Milliseconds()

	// 9. Audit, then log
	output.AuditID = m.recordAudit(input, def, rewritten, limit, audit.Entry{
		Outcome:   audit.OutcomeOK,
		Rows:      output.RowCount,
		Truncated: output.Truncated,
		ElapsedMS: output.ElapsedMS,
		Retried:   retried,
	})

	logEvent := m.logger.Info().
		Str("tool", def.Name).
		Str("category", string(def.Category)).
		Str("template", rewritten.TemplateID).
		Dur("duration", time.Since(startTime)).
		Int("row_count", output.RowCount)
	if rewritten.Fallback {
		logEvent = logEvent.Bool("fallback", true)
	}
	if retried {
		logEvent = logEvent.Bool("retried", true)
	}
	if output.Truncated {
		logEvent = logEvent.Bool("truncated", true)
	}
	logEvent.Msg("tool executed")

	return output
}

// bindParams validates raw arguments against the descriptor. Arguments the
// descriptor does not declare are rejected rather than dropped. Returns the
// validated parameter set and the clamped row limit.
func (m *IbmiMcp) bindParams(def *ToolDef, args map[string]any) (Params, int, error) {
	params := make(Params, len(def.Params))
	limit := def.DefaultLimit

	for name := range args {
		known := false
		for _, spec := range def.Params {
			if spec.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, 0, &ToolError{
				Kind:    FailInvalidParameter,
				Message: fmt.Sprintf("unknown parameter %q for tool %s", name, def.Name),
			}
		}
	}

	for _, spec := range def.Params {
		raw, present := args[spec.Name]

		switch spec.Kind {
		case ParamLimit:
			// Never fails: anything unusable becomes the default.
			limit = ident.Limit(raw, def.DefaultLimit, def.MaxLimit)

		case ParamIdentifier:
			s := stringValue(raw)
			if s == "" {
				if spec.Required {
					return nil, 0, requiredErr(spec.Name)
				}
				continue
			}
			v, err := ident.Identifier(s, spec.Name)
			if err != nil {
				return nil, 0, err
			}
			params[spec.Name] = v

		case ParamSpecial:
			s := stringValue(raw)
			if s == "" {
				if spec.Required {
					return nil, 0, requiredErr(spec.Name)
				}
				continue
			}
			v, err := ident.SpecialValue(s, spec.Name)
			if err != nil {
				return nil, 0, err
			}
			params[spec.Name] = v

		case ParamIdentifierList:
			s := stringValue(raw)
			if s == "" {
				continue
			}
			v, err := ident.IdentifierList(s, spec.Name)
			if err != nil {
				return nil, 0, err
			}
			params[spec.Name] = v

		case ParamIFSPath:
			s := stringValue(raw)
			if s == "" {
				if spec.Required {
					return nil, 0, requiredErr(spec.Name)
				}
				continue
			}
			v, err := ident.IFSPath(s)
			if err != nil {
				return nil, 0, err
			}
			params[spec.Name] = v

		case ParamClause:
			s := stringValue(raw)
			if s == "" {
				continue
			}
			v, err := guard.SimpleClause(s, spec.Name)
			if err != nil {
				return nil, 0, err
			}
			params[spec.Name] = v

		case ParamSQL:
			s := stringValue(raw)
			if s == "" {
				return nil, 0, requiredErr(spec.Name)
			}
			if err := m.guard.Check(s); err != nil {
				return nil, 0, err
			}
			params[spec.Name] = s

		case ParamString:
			s := strings.TrimSpace(stringValue(raw))
			if s == "" {
				if spec.Required {
					return nil, 0, requiredErr(spec.Name)
				}
				continue
			}
			params[spec.Name] = s

		case ParamNumber:
			if !present {
				if spec.Required {
					return nil, 0, requiredErr(spec.Name)
				}
				continue
			}
			f, ok := numberValue(raw)
			if !ok {
				return nil, 0, &ToolError{
					Kind:    FailInvalidParameter,
					Message: fmt.Sprintf("parameter %q must be a number", spec.Name),
				}
			}
			params[spec.Name] = f

		case ParamBool:
			if b, ok := raw.(bool); ok {
				params[spec.Name] = b
			}
		}
	}

	return params, limit, nil
}

// admit resolves the admission schema for the call and checks it against
// policy. Business tools are admitted on their schema argument; everything
// else on the catalog schemas the registry templates reference.
func (m *IbmiMcp) admit(def *ToolDef, params Params) error {
	if def.SchemaParam == "" {
		return nil
	}
	return m.policy.Admit(params.Str(def.SchemaParam), def.Category)
}

// toToolError maps pipeline and transport errors onto the failure taxonomy.
func (m *IbmiMcp) toToolError(err error) *ToolError {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}

	var identErr *ident.Error
	if errors.As(err, &identErr) {
		return &ToolError{Kind: FailInvalidIdentifier, Message: identErr.Error()}
	}

	var guardErr *guard.Error
	if errors.As(err, &guardErr) {
		return &ToolError{Kind: FailUnsafeStatement, Message: guardErr.Error(), Rule: guardErr.Rule}
	}

	var schemaErr *policy.SchemaError
	if errors.As(err, &schemaErr) {
		return &ToolError{Kind: FailSchemaNotAllowed, Message: schemaErr.Error()}
	}

	var actionsErr *policy.ActionsError
	if errors.As(err, &actionsErr) {
		return &ToolError{
			Kind:    FailActionsDisabled,
			Message: actionsErr.Error(),
			Hint:    "set policy.enable_action_tools (or IBMI_ENABLE_ACTION_TOOLS) to allow action tools",
		}
	}

	var capErr *rewrite.CapabilityError
	if errors.As(err, &capErr) {
		return &ToolError{
			Kind:    FailCapabilityUnavailable,
			Message: fmt.Sprintf("required service %s.%s is not available on the connected server", capErr.Schema, capErr.Service),
			Hint:    capErr.Hint,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		diagnostic := fmt.Sprintf("SQLSTATE %s: %s", pgErr.Code, pgErr.Message)
		return &ToolError{
			Kind:       FailRemoteRejected,
			Message:    "the server rejected the statement",
			Diagnostic: diagnostic,
			Hint:       m.hints.Match(diagnostic),
		}
	}

	return &ToolError{
		Kind:    FailExecutionFailed,
		Message: err.Error(),
		Hint:    m.hints.Match(err.Error()),
	}
}

// refuse finalizes a pipeline run that never reached execution.
func (m *IbmiMcp) refuse(input InvokeInput, def *ToolDef, start time.Time, toolErr *ToolError) *InvokeOutput {
	return m.finishFailed(input, def, nil, 0, false, start, toolErr, audit.OutcomeRefused)
}

// fail finalizes a pipeline run whose execution failed or was rejected.
func (m *IbmiMcp) fail(input InvokeInput, def *ToolDef, rewritten *rewrite.Result, limit int, retried bool, start time.Time, toolErr *ToolError) *InvokeOutput {
	outcome := audit.OutcomeFailed
	if toolErr.Kind == FailRemoteRejected {
		outcome = audit.OutcomeRejected
	}
	return m.finishFailed(input, def, rewritten, limit, retried, start, toolErr, outcome)
}

func (m *IbmiMcp) finishFailed(input InvokeInput, def *ToolDef, rewritten *rewrite.Result, limit int, retried bool, start time.Time, toolErr *ToolError, outcome string) *InvokeOutput {
	elapsed := time.Since(start).Milliseconds()
	output := &InvokeOutput{ElapsedMS: elapsed, Error: toolErr}
	if rewritten != nil {
		output.TemplateID = rewritten.TemplateID
		output.Fallback = rewritten.Fallback
	}

	output.AuditID = m.recordAudit(input, def, rewritten, limit, audit.Entry{
		Outcome:   outcome,
		Failure:   string(toolErr.Kind),
		Rule:      toolErr.Rule,
		ElapsedMS: elapsed,
		Retried:   retried,
	})

	m.logger.Error().
		Str("tool", input.Tool).
		Str("kind", string(toolErr.Kind)).
		Str("rule", toolErr.Rule).
		Dur("duration", time.Since(start)).
		Msg(toolErr.Message)

	return output
}

// recordAudit appends one entry for this invocation. Business-data
// parameter values may hold personal data and are reduced to a count;
// system and action parameters are recorded verbatim.
func (m *IbmiMcp) recordAudit(input InvokeInput, def *ToolDef, rewritten *rewrite.Result, limit int, e audit.Entry) string {
	if m.auditor == nil {
		return ""
	}

	e.Tool = input.Tool
	if def != nil {
		e.Category = string(def.Category)
	}
	if rewritten != nil {
		e.TemplateID = rewritten.TemplateID
		e.Fallback = rewritten.Fallback
		e.SQL = truncateForLog(rewritten.SQL, 2000)
		e.ParamCount = len(rewritten.Args)
		if def != nil && def.Category != policy.CategoryBusiness {
			e.Params = rewritten.Args
		}
	}
	e.Limit = limit

	id, err := m.auditor.Record(e)
	if err != nil {
		m.logger.Error().Err(err).Str("tool", input.Tool).Msg("audit write failed")
		return ""
	}
	return id
}

func stringValue(raw any) string {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func requiredErr(name string) error {
	return &ToolError{
		Kind:    FailInvalidParameter,
		Message: fmt.Sprintf("parameter %q is required", name),
	}
}

// truncateForLog truncates a string for log and audit output.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	truncateAt := maxLen
	for truncateAt > 0 && !utf8.RuneStart(s[truncateAt]) {
		truncateAt--
	}
	return s[:truncateAt] + "...[truncated]"
}
