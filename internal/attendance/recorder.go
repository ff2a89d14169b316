package attendance

import (
	"context"
	"encoding/json"
	"log"

	"asistencia/internal/metrics"
	"asistencia/internal/queue"
)

// CheckInWriter is the slice of the repository the recorder needs.
type CheckInWriter interface {
	InsertCheckIn(ctx context.Context, c CheckIn) error
}

// Recorder drains check-in messages and appends attendance rows. Insert
// failures are logged and the message is dropped; the recognition that
// produced it has long since been answered.
type Recorder struct {
	repo CheckInWriter
	q    queue.Queue
}

// NewRecorder creates a recorder.
func NewRecorder(repo CheckInWriter, q queue.Queue) *Recorder {
	return &Recorder{repo: repo, q: q}
}

// Run consumes until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	messages, err := r.q.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		if msg.Type != "checkin" {
			continue
		}
		var c CheckIn
		if err := json.Unmarshal(msg.Body, &c); err != nil {
			log.Printf("malformed checkin %s: %v", msg.ID, err)
			continue
		}
		if err := r.repo.InsertCheckIn(ctx, c); err != nil {
			log.Printf("attendance insert failed for student %d course %d: %v", c.StudentID, c.SessionID, err)
			metrics.CheckInWrites.WithLabelValues("failed").Inc()
			continue
		}
		metrics.CheckInWrites.WithLabelValues("ok").Inc()
	}
	return nil
}
