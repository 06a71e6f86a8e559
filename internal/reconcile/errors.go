package reconcile

import (
	"fmt"
	"strings"

	"github.com/mcoding/dunders/internal/types"
)

// ConsistencyError reports groups without a milestone. Milestones must be
// created (once) before issues can be synced.
type ConsistencyError struct {
	Missing []types.Group
}

func (e *ConsistencyError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, g := range e.Missing {
		labels[i] = g.Label()
	}
	return fmt.Sprintf("no milestone for %d group(s): %s (run 'dunders milestones create' first)",
		len(e.Missing), strings.Join(labels, ", "))
}

// RemoteCallError wraps a failed GitHub call made on behalf of one item.
type RemoteCallError struct {
	Op     string // e.g. "create issue", "comment"
	Target string // dunder name or group label
	Err    error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Op, e.Target, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
