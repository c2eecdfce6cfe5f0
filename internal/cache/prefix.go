package cache

import "fmt"

type Prefix string

const (
	SessionMessageCount Prefix = "session_message_count"
	// SessionMessageGen is bumped on every create and delete in a session.
	// Cached counts are keyed by it, so a count computed before a write is
	// never read after it.
	SessionMessageGen Prefix = "session_message_gen"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}
