/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-06-29 02:29:59
 * @LastEditTime: 2026-08-17 13:24:50
 * @LastEditors: memorymap
 */

// Package version reports build information injected with -ldflags or read from the module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time, e.g. -ldflags "-X .../version.Version=v1.2.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown (no build info)"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// vcsSetting returns a -buildvcs setting such as vcs.revision.
func vcsSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	rev := vcsSetting("vcs.revision")
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	value := vcsSetting("vcs.time")
	if value == "" {
		return "unknown"
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return value
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		GoVersion: GoVersion,
	}
}

// GetVersionString renders "v1.2.0, commit abc1234, built at 2025-01-01 00:00:00".
func GetVersionString() string {
	parts := []string{GetVersion()}
	if commit := GetCommit(); commit != "unknown" {
		parts = append(parts, fmt.Sprintf("commit %s", commit))
	}
	if date := GetBuildDate(); date != "unknown" {
		parts = append(parts, fmt.Sprintf("built at %s", date))
	}
	return strings.Join(parts, ", ")
}
