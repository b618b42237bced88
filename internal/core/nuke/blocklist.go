// Package nuke contains the pure business logic for the client cleanup workflow.
// Nothing in this package performs I/O; callers pre-fetch every fact it needs.
package nuke

import (
	"regexp"
	"sort"
	"strings"
)

// Blocklist matches protected names that must never be cleaned up.
// A protected marker counts when it is the whole name or a -, _ or . separated part of it.
var Blocklist = regexp.MustCompile(`(?i)(^|[-_.])(prod|production|live|shared|common|system|admin|root|default|template|master|staging)([-_.]|$)`)

// validName is the shape of a client token. Anything else (path separators,
// dot segments, whitespace) is never offered or accepted.
var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// reservedFolders are directory entries that never name a client.
var reservedFolders = map[string]bool{
	"test":       true,
	"lost+found": true,
}

// SystemSchemas are databases that are never matched to a client.
var SystemSchemas = map[string]bool{
	"information_schema": true,
	"mysql":              true,
	"performance_schema": true,
	"sys":                true,
	"main":               true, // sqlite
	"temp":               true, // sqlite
}

// IsBlocked reports whether name matches the protected blocklist.
func IsBlocked(name string) bool {
	return Blocklist.MatchString(name)
}

// IsValidName reports whether name is a well-formed, normalized client token.
func IsValidName(name string) bool {
	return validName.MatchString(name) && !strings.Contains(name, "..")
}

// Normalize lowercases and trims a client name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FolderCandidates turns a raw directory listing into client names,
// dropping reserved entries and hidden files.
func FolderCandidates(entries []string) []string {
	var out []string
	for _, e := range entries {
		name := Normalize(e)
		if name == "" || reservedFolders[name] || strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, name)
	}
	return out
}

// MergeCandidates unions every source, lowercases, drops blanks, malformed and
// blocked names, and returns a sorted, deduplicated list.
func MergeCandidates(sources ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, src := range sources {
		for _, raw := range src {
			name := Normalize(raw)
			if name == "" || seen[name] || !IsValidName(name) || IsBlocked(name) {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// MatchDatabases returns the databases whose name contains client, compared
// case-insensitively, in sorted order. System schemas and the protected names
// (the config database) never match.
func MatchDatabases(all []string, client string, protected ...string) []string {
	needle := Normalize(client)
	if needle == "" {
		return nil
	}
	var out []string
	for _, db := range all {
		lower := strings.ToLower(db)
		if SystemSchemas[lower] || isProtected(lower, protected) {
			continue
		}
		if strings.Contains(lower, needle) {
			out = append(out, db)
		}
	}
	sort.Strings(out)
	return out
}

func isProtected(lower string, protected []string) bool {
	for _, p := range protected {
		if p != "" && strings.ToLower(p) == lower {
			return true
		}
	}
	return false
}
