// Package meta holds build identity shared by the server and CLI.
package meta

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/qseries/ibmi-mcp/internal/meta.Version=...".
var Version = "0.3.0-dev"
