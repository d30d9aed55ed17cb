package imcp

// InvokeInput is a single tool call: the tool name and its raw arguments as
// received from the upstream agent.
type InvokeInput struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// InvokeOutput is the result of one pipeline run. Exactly one of the result
// fields or Error is meaningful: a refusal or failure leaves Rows nil and
// sets Error. Rows are positional and parallel to Columns.
type InvokeOutput struct {
	Columns      []string   `json:"columns,omitempty"`
	Rows         [][]any    `json:"rows,omitempty"`
	RowCount     int        `json:"row_count"`
	RowsAffected int64      `json:"rows_affected,omitempty"`
	Truncated    bool       `json:"truncated,omitempty"`
	ElapsedMS    int64      `json:"elapsed_ms"`
	TemplateID   string     `json:"template_id,omitempty"`
	Fallback     bool       `json:"fallback,omitempty"`
	AuditID      string     `json:"audit_id,omitempty"`
	Error        *ToolError `json:"error,omitempty"`
}
