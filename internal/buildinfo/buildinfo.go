// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package buildinfo holds version information set at link time with
// -ldflags "-X github.com/db47h/hwsoc/internal/buildinfo.Version=...".
//
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a one line version string.
//
func String() string {
	return fmt.Sprintf("hwsoc %s (commit=%s, date=%s)", Version, Commit, Date)
}
