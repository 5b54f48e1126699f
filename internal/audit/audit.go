// Package audit records an append-only event trail for record mutations.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medidesk/clinic-records/internal/storage"
)

const stream = "audit"

type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	SubjectID string          `json:"subject_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Recorder appends events to the storage layer. A failed append is logged
// and swallowed so bookkeeping never blocks the operation that triggered it.
type Recorder struct {
	sink storage.Appender
	log  zerolog.Logger
}

func NewRecorder(sink storage.Appender, log zerolog.Logger) *Recorder {
	return &Recorder{sink: sink, log: log}
}

func (r *Recorder) Record(ctx context.Context, eventType, subjectID string, payload map[string]any) {
	if r == nil || r.sink == nil {
		return
	}

	var raw json.RawMessage
	if len(payload) > 0 {
		data, err := json.Marshal(payload)
		if err != nil {
			r.log.Error().Err(err).Str("event", eventType).Msg("marshal audit payload")
		} else {
			raw = data
		}
	}

	ev := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}

	line, err := json.Marshal(ev)
	if err != nil {
		r.log.Error().Err(err).Str("event", eventType).Msg("marshal audit event")
		return
	}
	if err := r.sink.Append(ctx, stream, line); err != nil {
		r.log.Error().Err(err).Str("event", eventType).Str("subject", subjectID).Msg("append audit event")
	}
}
