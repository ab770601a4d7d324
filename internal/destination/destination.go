// Package destination classifies a user-supplied target string into one of
// the four accepted shapes (rsync daemon URL, rsync daemon module, ssh
// target, local path) and derives the shortname and normalized path used
// throughout the rest of rsyncwatch.
package destination

import (
	"path/filepath"
	"strings"
)

// Parsed is the result of classifying a target string.
type Parsed struct {
	Remote     bool
	Shortname  string
	Normalized string
}

// Parse never errors: any non-empty string parses as purely syntactic.
// Empty strings are a caller bug, so Parse panics on them rather than
// returning a zero value a worker might silently start against.
func Parse(target string) Parsed {
	if target == "" {
		panic("destination: empty target")
	}

	switch {
	case strings.HasPrefix(target, "rsync://"):
		return parseRsyncURL(target)
	case hasModuleForm(target):
		return parseModule(target)
	case hasSSHForm(target):
		return parseSSH(target)
	default:
		return parseLocal(target)
	}
}

// hasModuleForm reports whether "::" appears before the first "/".
func hasModuleForm(target string) bool {
	slash := strings.Index(target, "/")
	dcolon := strings.Index(target, "::")
	if dcolon < 0 {
		return false
	}
	return slash < 0 || dcolon < slash
}

// hasSSHForm reports whether ":" appears before the first "/".
func hasSSHForm(target string) bool {
	slash := strings.Index(target, "/")
	colon := strings.Index(target, ":")
	if colon < 0 {
		return false
	}
	return slash < 0 || colon < slash
}

func parseRsyncURL(target string) Parsed {
	rest := strings.TrimPrefix(target, "rsync://")
	end := strings.Index(rest, "/")
	var authority string
	if end < 0 {
		authority = rest
	} else {
		authority = rest[:end]
	}
	return Parsed{
		Remote:     true,
		Shortname:  shortnameFromAuthority(authority),
		Normalized: ensureTrailingSlash(target),
	}
}

func parseModule(target string) Parsed {
	authority := target[:strings.Index(target, "::")]
	return Parsed{
		Remote:     true,
		Shortname:  shortnameFromAuthority(authority),
		Normalized: ensureTrailingSlash(target),
	}
}

func parseSSH(target string) Parsed {
	authority := target[:strings.Index(target, ":")]
	normalized := target
	if !strings.HasSuffix(target, ":") && !strings.HasSuffix(target, "/") {
		normalized += "/"
	}
	return Parsed{
		Remote:     true,
		Shortname:  shortnameFromAuthority(authority),
		Normalized: normalized,
	}
}

func parseLocal(target string) Parsed {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	return Parsed{
		Remote:     false,
		Shortname:  filepath.Base(abs),
		Normalized: ensureTrailingSlash(abs),
	}
}

// shortnameFromAuthority strips a leading "user@" and a trailing ":port".
func shortnameFromAuthority(authority string) string {
	if at := strings.Index(authority, "@"); at >= 0 {
		authority = authority[at+1:]
	}
	if colon := strings.Index(authority, ":"); colon >= 0 {
		authority = authority[:colon]
	}
	return authority
}

func ensureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
