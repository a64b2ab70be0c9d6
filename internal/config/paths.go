package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and a ~\ prefix are also expanded.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandPercentVars(expanded)
	}

	rest, ok := trimHome(expanded)
	if !ok {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}

// trimHome strips a leading "~" or "~/" and reports whether it was present.
func trimHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if strings.HasPrefix(p, "~/") {
		return p[2:], true
	}
	if runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`) {
		return p[2:], true
	}
	return p, false
}

// expandPercentVars replaces %NAME% with the value of NAME. Unknown variables
// and a lone % are left as-is.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			b.WriteString(p)
			return b.String()
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			b.WriteString(p)
			return b.String()
		}
		end += start + 1

		b.WriteString(p[:start])
		name := p[start+1 : end]
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
			p = p[end+1:]
			continue
		}
		b.WriteByte('%')
		p = p[start+1:]
	}
}
