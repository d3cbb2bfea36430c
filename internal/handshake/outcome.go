package handshake

// PendingOp says what to do with the session's pending redirect.
type PendingOp int

const (
	// PendingKeep leaves the session untouched.
	PendingKeep PendingOp = iota
	// PendingSet stores Pending.Next.
	PendingSet
	// PendingClear removes the key.
	PendingClear
)

func (op PendingOp) String() string {
	switch op {
	case PendingSet:
		return "set"
	case PendingClear:
		return "clear"
	default:
		return "keep"
	}
}

// Pending is the new value of the pending redirect after an operation.
type Pending struct {
	Op   PendingOp
	Next string
}

// pendingFrom sets the pending redirect to next, or clears it when next is
// empty so a previous flow's destination cannot leak into this one.
func pendingFrom(next string) Pending {
	if next == "" {
		return Pending{Op: PendingClear}
	}
	return Pending{Op: PendingSet, Next: next}
}

// Apply returns the pending value a session holds after p is written.
func (p Pending) Apply(current string) string {
	switch p.Op {
	case PendingSet:
		return p.Next
	case PendingClear:
		return ""
	default:
		return current
	}
}

// Outcome is what a handler must do after an operation: first write
// Pending to the session, then either redirect or render the error view.
type Outcome struct {
	Pending Pending

	// Redirect is the Location of a 302 response.
	Redirect string

	// RenderError asks for the error view. ErrorTemplate is the configured
	// template path; empty means the built-in page.
	RenderError   bool
	ErrorTemplate string
}
