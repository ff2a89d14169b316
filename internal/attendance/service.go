package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"asistencia/internal/metrics"
	"asistencia/internal/queue"
	"asistencia/internal/roster"
)

// ErrNotRecognized is returned when the claimed id matches no enrolled student.
var ErrNotRecognized = errors.New("not recognized")

// StudentFinder is the slice of the roster repository recognition needs.
type StudentFinder interface {
	Get(ctx context.Context, id int) (*roster.Student, error)
}

// Service verifies identity claims from the scanner and hands the resulting
// check-ins to the queue. The recognition response never waits on the
// attendance write: a publish failure is logged and swallowed so a slow or
// broken attendance path cannot fail the scanner's recognition cycle.
type Service struct {
	roster    StudentFinder
	q         queue.Queue
	sessionID int
}

// NewService creates a service recording against the given course id.
func NewService(finder StudentFinder, q queue.Queue, sessionID int) *Service {
	return &Service{roster: finder, q: q, sessionID: sessionID}
}

// Recognize looks up a claimed id. On a match it returns the id immediately
// and queues one check-in stamped with the claim time; on no match it returns
// ErrNotRecognized and queues nothing.
func (s *Service) Recognize(ctx context.Context, claimedID int) (int, error) {
	st, err := s.roster.Get(ctx, claimedID)
	if err != nil {
		return 0, err
	}
	if st == nil {
		metrics.Recognitions.WithLabelValues("miss").Inc()
		return 0, ErrNotRecognized
	}

	body, _ := json.Marshal(CheckIn{
		StudentID: st.ID,
		SessionID: s.sessionID,
		When:      time.Now().UTC(),
	})
	msg := queue.Message{ID: uuid.NewString(), Type: "checkin", Body: body}
	if err := s.q.Publish(ctx, msg); err != nil {
		log.Printf("checkin publish failed for student %d: %v", st.ID, err)
		metrics.CheckInWrites.WithLabelValues("dropped").Inc()
	}

	metrics.Recognitions.WithLabelValues("hit").Inc()
	return st.ID, nil
}
