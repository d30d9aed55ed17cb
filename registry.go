package imcp

import (
	"fmt"
	"strings"

	"github.com/qseries/ibmi-mcp/internal/policy"
	"github.com/qseries/ibmi-mcp/internal/rewrite"
)

// ParamKind selects the validation rule applied to a tool parameter.
type ParamKind string

const (
	ParamIdentifier     ParamKind = "identifier"
	ParamIdentifierList ParamKind = "identifier_list"
	ParamSpecial        ParamKind = "special"
	ParamIFSPath        ParamKind = "ifs_path"
	ParamLimit          ParamKind = "limit"
	ParamClause         ParamKind = "clause"
	ParamString         ParamKind = "string"
	ParamNumber         ParamKind = "number"
	ParamBool           ParamKind = "bool"
	ParamSQL            ParamKind = "sql"
)

// ParamSpec describes one tool parameter.
type ParamSpec struct {
	Name        string
	Kind        ParamKind
	Required    bool
	Description string
}

// Params is a validated parameter set. Identifier values are upper-cased,
// limits clamped, clauses and SQL already checked; bind functions read them
// without re-validating.
type Params map[string]any

// Str returns the string value of a parameter, or "" when absent.
func (p Params) Str(name string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return ""
}

// Arg returns a bind-ready value: nil when the parameter is absent or
// empty, the value otherwise. Optional table-function filters bind NULL.
func (p Params) Arg(name string) any {
	v, ok := p[name]
	if !ok {
		return nil
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil
	}
	return v
}

// Int returns the int value of a parameter, or 0 when absent.
func (p Params) Int(name string) int {
	if v, ok := p[name].(int); ok {
		return v
	}
	return 0
}

// Float returns the float64 value of a parameter, or 0 when absent.
func (p Params) Float(name string) float64 {
	if v, ok := p[name].(float64); ok {
		return v
	}
	return 0
}

// Bool returns the bool value of a parameter, or false when absent.
func (p Params) Bool(name string) bool {
	if v, ok := p[name].(bool); ok {
		return v
	}
	return false
}

// BindFunc resolves validated parameters to a statement template and its
// ordered bind arguments, excluding the row limit (the rewriter appends or
// inlines it per server generation).
type BindFunc func(p Params) (*rewrite.Template, []any, error)

// ToolDef is one row of the closed tool registry. Invoke contains no
// per-tool control flow; adding a tool is a table edit.
type ToolDef struct {
	Name        string
	Category    policy.Category
	Description string
	Params      []ParamSpec

	// DefaultLimit/MaxLimit configure the row-limit clamp for tools with a
	// limit parameter; zero means the tool takes no limit.
	DefaultLimit int
	MaxLimit     int

	// SchemaParam names the parameter holding the admission schema for
	// business-data tools. System tools are admitted against the catalog
	// schemas their templates reference.
	SchemaParam string

	// Write marks the statement as a change; it executes through Exec and
	// only when action tools are enabled.
	Write bool

	Bind BindFunc
}

// staticBind binds a fixed template, pulling the named parameters in
// placeholder order. Absent optional parameters bind NULL.
func staticBind(tpl *rewrite.Template, names ...string) BindFunc {
	return func(p Params) (*rewrite.Template, []any, error) {
		args := make([]any, len(names))
		for i, name := range names {
			args[i] = p.Arg(name)
		}
		return tpl, args, nil
	}
}

func limitParam(desc string) ParamSpec {
	return ParamSpec{Name: "limit", Kind: ParamLimit, Description: desc}
}

var toolDefs = []*ToolDef{
	{
		Name:        "get-system-status",
		Category:    policy.CategorySystem,
		Description: "Overall system performance statistics from QSYS2.SYSTEM_STATUS.",
		Bind:        staticBind(tplSystemStatus),
	},
	{
		Name:        "get-system-activity",
		Category:    policy.CategorySystem,
		Description: "Current activity metrics from QSYS2.SYSTEM_ACTIVITY_INFO.",
		Bind:        staticBind(tplSystemActivity),
	},
	{
		Name:        "top-cpu-jobs",
		Category:    policy.CategorySystem,
		Description: "Active jobs ordered by CPU time from QSYS2.ACTIVE_JOB_INFO, optionally filtered by subsystem or user.",
		Params: []ParamSpec{
			{Name: "subsystems", Kind: ParamIdentifierList, Description: "Comma-separated subsystem names to filter on"},
			{Name: "users", Kind: ParamIdentifierList, Description: "Comma-separated user profile names to filter on"},
			limitParam("Maximum jobs to return"),
		},
		DefaultLimit: 20,
		MaxLimit:     1000,
		Bind:         staticBind(tplTopCPUJobs, "subsystems", "users"),
	},
	{
		Name:         "jobs-in-msgw",
		Category:     policy.CategorySystem,
		Description:  "Jobs waiting on a message (MSGW status) from QSYS2.ACTIVE_JOB_INFO.",
		Params:       []ParamSpec{limitParam("Maximum jobs to return")},
		DefaultLimit: 50,
		MaxLimit:     1000,
		Bind:         staticBind(tplMsgwJobs),
	},
	{
		Name:         "qsysopr-messages",
		Category:     policy.CategorySystem,
		Description:  "Recent operator messages from the QSYSOPR message queue.",
		Params:       []ParamSpec{limitParam("Maximum messages to return")},
		DefaultLimit: 50,
		MaxLimit:     1000,
		Bind:         staticBind(tplQsysoprMessages),
	},
	{
		Name:         "netstat-snapshot",
		Category:     policy.CategorySystem,
		Description:  "TCP/IP connections ordered by idle time from QSYS2.NETSTAT_INFO.",
		Params:       []ParamSpec{limitParam("Maximum connections to return")},
		DefaultLimit: 50,
		MaxLimit:     5000,
		Bind:         staticBind(tplNetstat),
	},
	{
		Name:        "get-asp-info",
		Category:    policy.CategorySystem,
		Description: "Auxiliary storage pool capacity and usage from QSYS2.ASP_INFO.",
		Bind:        staticBind(tplASPInfo),
	},
	{
		Name:         "subsystem-pool-info",
		Category:     policy.CategorySystem,
		Description:  "Memory pool allocations per subsystem from QSYS2.SUBSYSTEM_POOL_INFO.",
		Params:       []ParamSpec{limitParam("Maximum pool entries to return")},
		DefaultLimit: 200,
		MaxLimit:     1000,
		Bind:         staticBind(tplSubsystemPools),
	},
	{
		Name:         "disk-hotspots",
		Category:     policy.CategorySystem,
		Description:  "Disk units ordered by percent used from QSYS2.SYSDISKSTAT.",
		Params:       []ParamSpec{limitParam("Maximum disk units to return")},
		DefaultLimit: 20,
		MaxLimit:     1000,
		Bind:         staticBind(tplDiskHotspots),
	},
	{
		Name:         "output-queue-hotspots",
		Category:     policy.CategorySystem,
		Description:  "Output queues ordered by spooled file count from QSYS2.OUTPUT_QUEUE_INFO.",
		Params:       []ParamSpec{limitParam("Maximum queues to return")},
		DefaultLimit: 20,
		MaxLimit:     1000,
		Bind:         staticBind(tplOutqHotspots),
	},
	{
		Name:         "ended-jobs",
		Category:     policy.CategorySystem,
		Description:  "Recently ended jobs from SYSTOOLS.ENDED_JOB_INFO (needs a recent PTF level).",
		Params:       []ParamSpec{limitParam("Maximum jobs to return")},
		DefaultLimit: 50,
		MaxLimit:     1000,
		Bind:         staticBind(tplEndedJobs),
	},
	{
		Name:         "job-queue-entries",
		Category:     policy.CategorySystem,
		Description:  "Job queue entries from SYSTOOLS.JOB_QUEUE_ENTRIES, falling back to QSYS2.JOB_QUEUE_INFO on older levels.",
		Params:       []ParamSpec{limitParam("Maximum entries to return")},
		DefaultLimit: 100,
		MaxLimit:     5000,
		Bind:         staticBind(tplJobQueueEntries),
	},
	{
		Name:         "user-storage-top",
		Category:     policy.CategorySystem,
		Description:  "User profiles ordered by storage used from QSYS2.USER_STORAGE.",
		Params:       []ParamSpec{limitParam("Maximum profiles to return")},
		DefaultLimit: 20,
		MaxLimit:     1000,
		Bind:         staticBind(tplUserStorage),
	},
	{
		Name:        "ifs-largest-objects",
		Category:    policy.CategorySystem,
		Description: "Largest IFS objects under a path from QSYS2.IFS_OBJECT_STATISTICS.",
		Params: []ParamSpec{
			{Name: "path", Kind: ParamIFSPath, Required: true, Description: "Absolute IFS start path, e.g. /home"},
			limitParam("Maximum objects to return"),
		},
		DefaultLimit: 50,
		MaxLimit:     5000,
		Bind:         staticBind(tplIFSLargestObjects, "path"),
	},
	{
		Name:        "objects-changed-recently",
		Category:    policy.CategorySystem,
		Description: "Objects changed within the last N days from QSYS2.OBJECT_STATISTICS.",
		Params: []ParamSpec{
			{Name: "days", Kind: ParamNumber, Description: "Look-back window in days"},
			limitParam("Maximum objects to return"),
		},
		DefaultLimit: 100,
		MaxLimit:     5000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			days := int(p.Float("days"))
			if days < 1 {
				days = 7
			}
			if days > 3650 {
				days = 3650
			}
			return tplObjectsChanged, []any{days}, nil
		},
	},
	{
		Name:         "ptfs-requiring-ipl",
		Category:     policy.CategorySystem,
		Description:  "PTFs whose activation requires an IPL, from QSYS2.PTF_INFO.",
		Params:       []ParamSpec{limitParam("Maximum PTFs to return")},
		DefaultLimit: 100,
		MaxLimit:     5000,
		Bind:         staticBind(tplPTFsRequiringIPL),
	},
	{
		Name:        "software-products",
		Category:    policy.CategorySystem,
		Description: "Installed software products from QSYS2.SOFTWARE_PRODUCT_INFO, optionally filtered by product ID.",
		Params: []ParamSpec{
			{Name: "product_id", Kind: ParamIdentifier, Description: "Product ID filter, e.g. 5770SS1"},
			limitParam("Maximum products to return"),
		},
		DefaultLimit: 200,
		MaxLimit:     5000,
		Bind:         staticBind(tplSoftwareProducts, "product_id", "product_id"),
	},
	{
		Name:         "license-info",
		Category:     policy.CategorySystem,
		Description:  "License usage and expiration from QSYS2.LICENSE_INFO.",
		Params:       []ParamSpec{limitParam("Maximum entries to return")},
		DefaultLimit: 200,
		MaxLimit:     5000,
		Bind:         staticBind(tplLicenseInfo),
	},
	{
		Name:        "search-sql-services",
		Category:    policy.CategorySystem,
		Description: "Search the QSYS2.SERVICES_INFO catalog by service or category name.",
		Params: []ParamSpec{
			{Name: "pattern", Kind: ParamString, Required: true, Description: "Substring to search for"},
			limitParam("Maximum services to return"),
		},
		DefaultLimit: 100,
		MaxLimit:     5000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			like := "%" + p.Str("pattern") + "%"
			return tplServicesSearch, []any{like, like}, nil
		},
	},
	{
		Name:         "list-user-profiles",
		Category:     policy.CategorySystem,
		Description:  "User profiles from QSYS2.USER_INFO_BASIC (no authority details).",
		Params:       []ParamSpec{limitParam("Maximum profiles to return")},
		DefaultLimit: 200,
		MaxLimit:     10000,
		Bind:         staticBind(tplUserProfiles),
	},
	{
		Name:         "list-privileged-profiles",
		Category:     policy.CategorySystem,
		Description:  "User profiles with special authorities from QSYS2.USER_INFO.",
		Params:       []ParamSpec{limitParam("Maximum profiles to return")},
		DefaultLimit: 200,
		MaxLimit:     10000,
		Bind:         staticBind(tplPrivilegedProfiles),
	},
	{
		Name:         "public-all-object-authority",
		Category:     policy.CategorySystem,
		Description:  "Objects granting *PUBLIC *ALL authority from QSYS2.OBJECT_PRIVILEGES.",
		Params:       []ParamSpec{limitParam("Maximum objects to return")},
		DefaultLimit: 200,
		MaxLimit:     10000,
		Bind:         staticBind(tplPublicAllObjects),
	},
	{
		Name:        "object-privileges",
		Category:    policy.CategorySystem,
		Description: "Privileges granted on one object from QSYS2.OBJECT_PRIVILEGES.",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Object schema (library)"},
			{Name: "object", Kind: ParamIdentifier, Required: true, Description: "Object name"},
			limitParam("Maximum entries to return"),
		},
		DefaultLimit: 200,
		MaxLimit:     5000,
		Bind:         staticBind(tplObjectPrivileges, "schema", "object"),
	},
	{
		Name:         "authorization-lists",
		Category:     policy.CategorySystem,
		Description:  "Authorization lists from QSYS2.AUTHORIZATION_LIST_INFO.",
		Params:       []ParamSpec{limitParam("Maximum lists to return")},
		DefaultLimit: 200,
		MaxLimit:     5000,
		Bind:         staticBind(tplAuthorizationLists),
	},
	{
		Name:        "authorization-list-entries",
		Category:    policy.CategorySystem,
		Description: "Entries of one authorization list from QSYS2.AUTHORIZATION_LIST_ENTRIES.",
		Params: []ParamSpec{
			{Name: "library", Kind: ParamIdentifier, Required: true, Description: "Authorization list library"},
			{Name: "name", Kind: ParamIdentifier, Required: true, Description: "Authorization list name"},
			limitParam("Maximum entries to return"),
		},
		DefaultLimit: 200,
		MaxLimit:     5000,
		Bind:         staticBind(tplAuthorizationListEntries, "library", "name"),
	},
	{
		Name:        "security-info",
		Category:    policy.CategorySystem,
		Description: "System-wide security configuration from QSYS2.SECURITY_INFO.",
		Bind:        staticBind(tplSecurityInfo),
	},
	{
		Name:        "user-mfa-settings",
		Category:    policy.CategorySystem,
		Description: "TOTP authentication settings per user profile from QSYS2.USER_INFO.",
		Params: []ParamSpec{
			{Name: "user", Kind: ParamSpecial, Description: "User profile to inspect, or *ALL"},
			limitParam("Maximum profiles to return"),
		},
		DefaultLimit: 500,
		MaxLimit:     5000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			user := p.Str("user")
			if user == "" {
				user = "*ALL"
			}
			return tplUserMFASettings, []any{user, user}, nil
		},
	},
	{
		Name:        "certificate-info-expiring",
		Category:    policy.CategorySystem,
		Description: "System store certificates expiring within a window from QSYS2.CERTIFICATE_INFO.",
		Params: []ParamSpec{
			{Name: "days", Kind: ParamNumber, Description: "Expiry window in days, 1 to 365"},
			limitParam("Maximum certificates to return"),
		},
		DefaultLimit: 100,
		MaxLimit:     5000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			days := int(p.Float("days"))
			if days <= 0 {
				days = 30
			}
			if days > 365 {
				days = 365
			}
			return tplCertificateExpiry, []any{days}, nil
		},
	},
	{
		Name:         "plan-cache-top",
		Category:     policy.CategorySystem,
		Description:  "Most expensive statements from QSYS2.PLAN_CACHE_STATEMENT, falling back to ACTIVE_QUERY_INFO on older levels.",
		Params:       []ParamSpec{limitParam("Maximum statements to return")},
		DefaultLimit: 25,
		MaxLimit:     1000,
		Bind:         staticBind(tplPlanCacheTop),
	},
	{
		Name:         "plan-cache-errors",
		Category:     policy.CategorySystem,
		Description:  "Statements with errors or warnings from QSYS2.PLAN_CACHE_STATEMENT, falling back to job log scanning.",
		Params:       []ParamSpec{limitParam("Maximum statements to return")},
		DefaultLimit: 50,
		MaxLimit:     5000,
		Bind:         staticBind(tplPlanCacheErrors),
	},
	{
		Name:         "index-advice",
		Category:     policy.CategorySystem,
		Description:  "Index advisor recommendations from QSYS2.INDEX_ADVICE, falling back to SYSIXADV.",
		Params:       []ParamSpec{limitParam("Maximum recommendations to return")},
		DefaultLimit: 50,
		MaxLimit:     5000,
		Bind:         staticBind(tplIndexAdvice),
	},
	{
		Name:         "lock-waits",
		Category:     policy.CategorySystem,
		Description:  "Current lock waits from QSYS2.LOCK_WAITS, falling back to OBJECT_LOCK_INFO.",
		Params:       []ParamSpec{limitParam("Maximum waits to return")},
		DefaultLimit: 50,
		MaxLimit:     1000,
		Bind:         staticBind(tplLockWaits),
	},
	{
		Name:         "journals",
		Category:     policy.CategorySystem,
		Description:  "Journals from QSYS2.JOURNAL_INFO.",
		Params:       []ParamSpec{limitParam("Maximum journals to return")},
		DefaultLimit: 200,
		MaxLimit:     10000,
		Bind:         staticBind(tplJournals),
	},
	{
		Name:         "journal-receivers",
		Category:     policy.CategorySystem,
		Description:  "Journal receivers from QSYS2.JOURNAL_RECEIVER_INFO.",
		Params:       []ParamSpec{limitParam("Maximum receivers to return")},
		DefaultLimit: 200,
		MaxLimit:     10000,
		Bind:         staticBind(tplJournalReceivers),
	},
	{
		Name:        "largest-objects",
		Category:    policy.CategorySystem,
		Description: "Largest objects in a library from QSYS2.OBJECT_STATISTICS.",
		Params: []ParamSpec{
			{Name: "library", Kind: ParamSpecial, Required: true, Description: "Library to scan, or a special value such as *ALLUSR"},
			limitParam("Maximum objects to return"),
		},
		DefaultLimit: 50,
		MaxLimit:     5000,
		Bind:         staticBind(tplLargestObjects, "library"),
	},
	{
		Name:        "library-sizes",
		Category:    policy.CategorySystem,
		Description: "Libraries and their sizes from QSYS2.LIBRARY_INFO, optionally excluding system libraries.",
		Params: []ParamSpec{
			{Name: "exclude_system", Kind: ParamBool, Description: "Skip libraries starting with Q or #"},
			limitParam("Maximum libraries to return"),
		},
		DefaultLimit: 100,
		MaxLimit:     20000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			if p.Bool("exclude_system") {
				return tplLibrarySizesExclSystem, nil, nil
			}
			return tplLibrarySizesAll, nil, nil
		},
	},
	{
		Name:        "list-tables-in-schema",
		Category:    policy.CategorySystem,
		Description: "Tables and views in a schema from QSYS2.SYSTABLES.",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Schema (library) to list"},
			limitParam("Maximum tables to return"),
		},
		DefaultLimit: 500,
		MaxLimit:     10000,
		Bind:         staticBind(tplTablesInSchema, "schema"),
	},
	{
		Name:        "describe-table",
		Category:    policy.CategorySystem,
		Description: "Column metadata for a table from QSYS2.SYSCOLUMNS.",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Table schema (library)"},
			{Name: "table", Kind: ParamIdentifier, Required: true, Description: "Table name"},
			limitParam("Maximum columns to return"),
		},
		DefaultLimit: 500,
		MaxLimit:     10000,
		Bind:         staticBind(tplColumnsForTable, "schema", "table"),
	},
	{
		Name:        "list-routines-in-schema",
		Category:    policy.CategorySystem,
		Description: "Procedures and functions in a schema from QSYS2.SYSROUTINES.",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Routine schema (library)"},
			limitParam("Maximum routines to return"),
		},
		DefaultLimit: 500,
		MaxLimit:     10000,
		Bind:         staticBind(tplRoutinesInSchema, "schema"),
	},
	{
		Name:        "system-values",
		Category:    policy.CategorySystem,
		Description: "System values from QSYS2.SYSTEM_VALUE_INFO, optionally filtered by name substring.",
		Params: []ParamSpec{
			{Name: "pattern", Kind: ParamString, Description: "Name substring, empty for all"},
			limitParam("Maximum values to return"),
		},
		DefaultLimit: 200,
		MaxLimit:     1000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			pattern := strings.ToUpper(strings.TrimSpace(p.Str("pattern")))
			if pattern == "" {
				return tplSystemValues, []any{"*ALL", "%"}, nil
			}
			return tplSystemValues, []any{pattern, "%" + pattern + "%"}, nil
		},
	},

	{
		Name:        "query-user-table",
		Category:    policy.CategoryBusiness,
		Description: "Query rows from a business table in an allowed schema, with optional WHERE and ORDER BY clauses.",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Business schema (must be in the allow-list)"},
			{Name: "table", Kind: ParamIdentifier, Required: true, Description: "Table name"},
			{Name: "where_clause", Kind: ParamClause, Description: "Simple WHERE predicate, e.g. ORDER_DATE >= CURRENT_DATE - 1 DAY"},
			{Name: "order_by", Kind: ParamClause, Description: "Simple ORDER BY list, e.g. ORDER_TOTAL DESC"},
			limitParam("Maximum rows to return"),
		},
		DefaultLimit: 100,
		MaxLimit:     5000,
		SchemaParam:  "schema",
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			var sb strings.Builder
			fmt.Fprintf(&sb, "SELECT * FROM %s.%s", p.Str("schema"), p.Str("table"))
			if w := p.Str("where_clause"); w != "" {
				sb.WriteString(" WHERE ")
				sb.WriteString(w)
			}
			if o := p.Str("order_by"); o != "" {
				sb.WriteString(" ORDER BY ")
				sb.WriteString(o)
			}
			sb.WriteString(" {{LIMIT}}")
			return &rewrite.Template{ID: "query-user-table", Text: sb.String()}, nil, nil
		},
	},
	{
		Name:        "describe-user-table",
		Category:    policy.CategoryBusiness,
		Description: "Column metadata for a business table from QSYS2.SYSCOLUMNS.",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Business schema (must be in the allow-list)"},
			{Name: "table", Kind: ParamIdentifier, Required: true, Description: "Table name"},
			limitParam("Maximum columns to return"),
		},
		DefaultLimit: 500,
		MaxLimit:     10000,
		SchemaParam:  "schema",
		Bind:         staticBind(tplColumnsForTable, "schema", "table"),
	},
	{
		Name:        "count-user-table-rows",
		Category:    policy.CategoryBusiness,
		Description: "Row count for a business table from QSYS2.SYSTABLESTAT metadata (no table scan).",
		Params: []ParamSpec{
			{Name: "schema", Kind: ParamIdentifier, Required: true, Description: "Business schema (must be in the allow-list)"},
			{Name: "table", Kind: ParamIdentifier, Required: true, Description: "Table name"},
		},
		SchemaParam: "schema",
		Bind:        staticBind(tplCountUserTableRows, "schema", "table"),
	},

	{
		Name:        "run-sql-query",
		Category:    policy.CategorySystem,
		Description: "Run a caller-supplied read-only SELECT against the system catalogs. The statement guard rejects anything but a single plain query.",
		Params: []ParamSpec{
			{Name: "sql", Kind: ParamSQL, Required: true, Description: "A single SELECT statement, no semicolons or comments"},
			limitParam("Maximum rows to return"),
		},
		DefaultLimit: 100,
		MaxLimit:     5000,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			text := p.Str("sql")
			// The slot token is internal; caller text carrying it would
			// hijack where the row limit lands.
			if strings.Contains(text, rewrite.LimitSlot) {
				return nil, nil, &ToolError{
					Kind:    FailInvalidParameter,
					Message: fmt.Sprintf("statement must not contain the %s placeholder", rewrite.LimitSlot),
				}
			}
			// Honor the limit unless the caller wrote their own FETCH
			// clause; a second one would be rejected by the server.
			if !strings.Contains(strings.ToUpper(text), "FETCH FIRST") {
				text += " " + rewrite.LimitSlot
			}
			return &rewrite.Template{ID: "run-sql-query", Text: text}, nil, nil
		},
	},

	{
		Name:        "log-performance-metrics",
		Category:    policy.CategoryAction,
		Description: "Insert a CPU/ASP usage sample into SAMPLE.METRICS for trend history. Disabled unless action tools are enabled.",
		Params: []ParamSpec{
			{Name: "cpu_usage", Kind: ParamNumber, Required: true, Description: "CPU utilization percent"},
			{Name: "asp_usage", Kind: ParamNumber, Required: true, Description: "System ASP utilization percent"},
		},
		Write: true,
		Bind: func(p Params) (*rewrite.Template, []any, error) {
			return tplLogPerformanceMetrics, []any{p.Float("cpu_usage"), p.Float("asp_usage")}, nil
		},
	},
}

// buildRegistry indexes the tool table by name. Panics on a duplicate name;
// the table is static so this is a programming error.
func buildRegistry() map[string]*ToolDef {
	reg := make(map[string]*ToolDef, len(toolDefs))
	for _, def := range toolDefs {
		if _, dup := reg[def.Name]; dup {
			panic(fmt.Sprintf("imcp: duplicate tool name %q", def.Name))
		}
		reg[def.Name] = def
	}
	return reg
}

// Tools returns the registry rows in declaration order.
func Tools() []*ToolDef {
	return toolDefs
}
