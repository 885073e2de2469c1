package session

import (
	"time"

	"github.com/xangma/sciama-vscode/internal/utils"
)

// Session records a created connection session: the generated alias, the
// overlay backing it, and the pointer value captured immediately before the
// swap (for restore).
type Session struct {
	Alias           string
	OverlayPath     string
	PreviousPointer string
}

// ScheduleRestore writes previous back into the pointer slot after delay.
// Best effort and not awaited: the returned timer is only useful to tests.
// Only the single most-recently-captured prior value is restored, not a
// stack.
func ScheduleRestore(p Pointer, previous string, delay time.Duration) *time.Timer {
	return time.AfterFunc(delay, func() {
		if err := p.Set(previous); err != nil {
			utils.PrintDebug("Deferred SSH config restore failed: %v", err)
		} else {
			utils.PrintDebug("SSH config pointer restored")
		}
	})
}
