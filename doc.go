// Package imcp is a query safety gateway for IBM i (Db2 for i) systems,
// exposed to AI agents through the Model Context Protocol (MCP).
//
// A tool call names an entry in a closed registry and supplies typed
// parameters; the pipeline validates identifiers and limits, classifies the
// statement through a deliberately blunt lexical guard, admits the target
// schema against policy, rewrites capability-dependent templates for the
// connected server generation, executes through a bounded connection pool
// with one retry, and records every invocation in an append-only audit
// trail. Caller input never reaches statement text except through bind
// parameters; the two narrow exceptions (validated identifiers and simple
// clauses in query-user-table) pass their own character-level checks first.
//
// # Library Usage
//
//	m, err := imcp.New(ctx, connString, imcp.Config{
//		Pool:  imcp.PoolConfig{MaxConns: 8},
//		Query: imcp.QueryConfig{DefaultTimeoutSeconds: 30, MaxRows: 1000},
//		Policy: imcp.PolicyConfig{
//			AllowedBusinessSchemas: []string{"ORDERLIB"},
//		},
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer m.Close(ctx)
//
//	// Use directly
//	out := m.Invoke(ctx, imcp.InvokeInput{Tool: "top-cpu-jobs", Args: map[string]any{"limit": 10}})
//
//	// Or register as MCP tools
//	imcp.RegisterMCPTools(mcpServer, m)
//
// Failures never reach the caller as raw errors: every refusal carries a
// [FailureKind] and, where one is known, a remediation hint.
package imcp
