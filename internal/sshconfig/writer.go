package sshconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// Writer persists the aggregate overlay file: Include directives for the
// user's existing SSH configs followed by the generated host block.
type Writer struct {
	Path string
	Tool string

	// now is overridable in tests
	now func() time.Time
}

// WriteOverlay renders the overlay and writes it atomically, creating parent
// directories as needed. Returns the written path.
func (w *Writer) WriteOverlay(entry *HostEntry, includes []string) (string, error) {
	clock := w.now
	if clock == nil {
		clock = time.Now
	}

	var b strings.Builder
	for _, include := range includes {
		include = utils.ExpandHome(strings.TrimSpace(include))
		if include == "" {
			continue
		}
		fmt.Fprintf(&b, "Include %s\n", FormatValue(include))
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(entry.Render(w.Tool, clock()))

	path := utils.ExpandHome(w.Path)
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := utils.WriteFileAtomic(path, []byte(b.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
