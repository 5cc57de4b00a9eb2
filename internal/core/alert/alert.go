// Package alert renders flagged records into outbound notifications
package alert

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"

	"github.com/go-json-experiment/json"
)

// DefaultSource is the envelope source consumers of the alert channel key on
const DefaultSource = "weather_timer_trigger"

// Event is one detector match inside a run
type Event struct {
	Pipeline   string
	Record     record.Record
	Keyword    string
	DetectedAt time.Time
}

// Alert is a rendered notification ready for an envelope
type Alert struct {
	Type       string
	Message    string
	PayloadKey string
	Payload    record.Record
}

// Formatter renders an Event
type Formatter interface {
	Format(Event) Alert
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc func(Event) Alert

// Format implements Formatter
func (f FormatterFunc) Format(e Event) Alert { return f(e) }

// Notifier delivers an encoded payload. Implementations report failure and
// never retry
type Notifier interface {
	Notify(ctx context.Context, body []byte) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, body []byte) error

// Notify implements Notifier
func (f NotifierFunc) Notify(ctx context.Context, body []byte) error { return f(ctx, body) }

// Envelope encodes a as the alert channel body:
// {alert_type, message, <payload key>, detected_at, source}
func Envelope(a Alert, detectedAt time.Time, source string) ([]byte, error) {
	if source == "" {
		source = DefaultSource
	}
	env := make(record.Record, 0, 5)
	env = append(env,
		record.Pair{Name: "alert_type", Value: a.Type},
		record.Pair{Name: "message", Value: a.Message},
	)
	if a.PayloadKey != "" {
		payload := a.Payload
		if payload == nil {
			payload = record.Record{}
		}
		env = append(env, record.Pair{Name: a.PayloadKey, Value: payload})
	}
	env = append(env,
		record.Pair{Name: "detected_at", Value: detectedAt.Format(time.RFC3339)},
		record.Pair{Name: "source", Value: source},
	)
	b, err := env.MarshalJSON()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode alert envelope")
	}
	return b, nil
}

// DefaultNoticeTemplate is the parking completion message
const DefaultNoticeTemplate = "✅ 주차장 데이터 수집 완료 - 총 {count}건"

// Notice is a completion message sent after a successful publish.
// "{count}" in Template is replaced by the number of published records
type Notice struct {
	Template string
}

// Enabled reports whether a notice is configured
func (n Notice) Enabled() bool { return strings.TrimSpace(n.Template) != "" }

// Text renders the message for count records
func (n Notice) Text(count int) string {
	return strings.ReplaceAll(n.Template, "{count}", strconv.Itoa(count))
}

// Body encodes the message as a workflow webhook body: {"text": "..."}
func (n Notice) Body(count int) ([]byte, error) {
	b, err := json.Marshal(struct {
		Text string `json:"text"`
	}{n.Text(count)})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode notice")
	}
	return b, nil
}
