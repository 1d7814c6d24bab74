// Package conf contains the constants that are used across packages for
// configuring versions and interpreter limits.
package conf

import (
	"fmt"
	"time"
)

const (
	// VERSION is the version of the ncsvm application.
	VERSION = "ncsvm 0.1.0"
	// VERSIONMAJORN is the major version.
	VERSIONMAJORN = 0
	// VERSIONMINORN is the minor version.
	VERSIONMINORN = 1
	// VERSIONPATCHN is the patch version.
	VERSIONPATCHN = 0
	// INITIALSTACKCAP operand stack capacity at machine startup.
	INITIALSTACKCAP = 64
	// INITIALRETURNCAP return offset stack capacity at machine startup.
	INITIALRETURNCAP = 16
	// PROGRAMCACHESIZE max compiled programs held by the runner cache.
	PROGRAMCACHESIZE = 64
)

// FullVersion returns the version and copyright.
func FullVersion() string {
	return fmt.Sprintf("%v Copyright (C) %v", VERSION, time.Now().Year())
}
