// Package version holds build metadata, overridden at link time with
// -ldflags "-X github.com/bnema/queuewatch/internal/version.Version=...".
package version

var Version = "dev"
