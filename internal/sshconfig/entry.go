// Package sshconfig renders and persists the scoped SSH configuration
// overlay: one generated host block whose RemoteCommand launches the
// allocation, plus Include directives pulling in the user's existing config.
package sshconfig

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
)

// HostEntry is one generated Host block.
type HostEntry struct {
	Alias         string
	HostName      string
	User          string
	RequestTTY    bool
	ForwardAgent  bool
	IdentityFile  string
	RemoteCommand string
	// Options holds additional directives, rendered sorted by key.
	// Empty values are omitted.
	Options map[string]string
}

var aliasUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeAlias maps alias to the safe character class [A-Za-z0-9_-],
// replacing every other character with "-". Non-empty input never yields an
// empty result.
func SanitizeAlias(alias string) string {
	return aliasUnsafe.ReplaceAllString(alias, "-")
}

// FormatValue quotes a directive value for an ssh_config line. Values already
// wrapped in double quotes pass through unchanged. Values containing
// whitespace are wrapped in double quotes with embedded backslashes and
// double quotes escaped; anything else is emitted as-is.
func FormatValue(value string) string {
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return value
	}
	if strings.IndexFunc(value, unicode.IsSpace) < 0 {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}

// Render produces the host block, stamped with the generating tool and time.
func (e *HostEntry) Render(tool string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by %s on %s\n", tool, now.Format(time.RFC3339))
	fmt.Fprintf(&b, "Host %s\n", e.Alias)
	writeDirective(&b, "HostName", e.HostName)
	writeDirective(&b, "User", e.User)
	if e.RequestTTY {
		writeDirective(&b, "RequestTTY", "yes")
	}
	if e.ForwardAgent {
		writeDirective(&b, "ForwardAgent", "yes")
	}
	writeDirective(&b, "IdentityFile", e.IdentityFile)
	writeDirective(&b, "RemoteCommand", e.RemoteCommand)

	keys := make([]string, 0, len(e.Options))
	for key := range e.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		writeDirective(&b, key, e.Options[key])
	}

	return b.String()
}

func writeDirective(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s %s\n", key, FormatValue(value))
}
