package imcp

// FailureKind classifies why an invocation was refused or failed. Every
// denial reaches the caller as a typed ToolError so the upstream agent can
// explain or correct the call instead of guessing from message text.
type FailureKind string

const (
	FailInvalidIdentifier     FailureKind = "invalid_identifier"
	FailInvalidParameter      FailureKind = "invalid_parameter"
	FailUnsafeStatement       FailureKind = "unsafe_statement"
	FailSchemaNotAllowed      FailureKind = "schema_not_allowed"
	FailActionsDisabled       FailureKind = "actions_disabled"
	FailCapabilityUnavailable FailureKind = "capability_unavailable"
	FailExecutionFailed       FailureKind = "execution_failed"
	FailRemoteRejected        FailureKind = "remote_rejected"
)

// ToolError is the structured failure carried in InvokeOutput. Rule names
// the specific guard rule for unsafe statements; Diagnostic preserves the
// remote server's SQLSTATE/SQLCODE text verbatim; Hint carries remediation
// guidance when one is known.
type ToolError struct {
	Kind       FailureKind `json:"kind"`
	Message    string      `json:"message"`
	Rule       string      `json:"rule,omitempty"`
	Diagnostic string      `json:"diagnostic,omitempty"`
	Hint       string      `json:"hint,omitempty"`
}

func (e *ToolError) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}
