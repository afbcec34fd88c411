package recorder

import "time"

// LoadEvent describes one chart load attempt. The price series itself is
// never recorded.
type LoadEvent struct {
	ID        string
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	Outcome   string // "ok" or an error kind such as "fetch_failure"
	Points    int
	Null      int
	BadKey    int
	BadValue  int
	Error     string
}

// Recorder persists load attempts for later inspection.
type Recorder interface {
	RecordLoad(evt *LoadEvent) error
	RecentLoads(limit int) ([]LoadEvent, error)
	Close() error
}
