package parser

// SessionID identifies one incremental-parsing session: the sequence of
// ParseIncremental calls that share a single evolving oldRoot, as opposed to
// a one-shot Parse. The parser runtime itself never mints or inspects a
// SessionID; it exists purely so long-lived callers (an editor session, an
// oakd connection) have a stable handle to key their own oldRoot/Source
// cache by.
type SessionID string
