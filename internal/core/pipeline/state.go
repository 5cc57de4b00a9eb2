package pipeline

import (
	"time"

	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

// State is a Runner's position in a run
type State string

// Idle -> Fetching -> Parsing -> Normalizing -> Publishing -> Idle; any state may
// move to Failed, which always returns to Idle
const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateParsing     State = "parsing"
	StateNormalizing State = "normalizing"
	StatePublishing  State = "publishing"
	StateFailed      State = "failed"
)

// TriggerSource says who started a run
type TriggerSource string

// Trigger sources
const (
	SourceCron    TriggerSource = "cron"
	SourceStartup TriggerSource = "startup"
	SourceManual  TriggerSource = "manual"
)

// Trigger is what the scheduler hands a Runner
type Trigger struct {
	At      time.Time     `json:"at"`
	Overdue bool          `json:"overdue"`
	Source  TriggerSource `json:"source,omitempty"`
}

// Outcome summarizes how a run ended
type Outcome string

// Outcomes
const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped" // nothing to publish and empty batches not wanted
	OutcomeFailed  Outcome = "failed"
)

// Summary is the result of one run, also kept as the last-run snapshot
type Summary struct {
	RunID    string  `json:"run_id"`
	Pipeline string  `json:"pipeline"`
	Trigger  Trigger `json:"trigger"`
	State    State   `json:"state"`
	Outcome  Outcome `json:"outcome"`

	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
	DurationMS int64     `json:"duration_ms"`

	Items          int `json:"items"`
	ItemErrors     int `json:"item_errors"`
	Excluded       int `json:"excluded"`
	Coercions      int `json:"coercions"`
	Filtered       int `json:"filtered"`
	Records        int `json:"records"`
	Anomalies      int `json:"anomalies"`
	NotifyFailures int `json:"notify_failures"`

	Published bool `json:"published"`
	Skipped   bool `json:"skipped"`
	Bytes     int  `json:"bytes"`

	Err   error      `json:"-"`
	Error *perr.Wire `json:"error,omitempty"`
}
