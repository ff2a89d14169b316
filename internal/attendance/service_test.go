package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"asistencia/internal/queue"
	"asistencia/internal/roster"
)

type fakeFinder struct {
	students map[int]*roster.Student
	err      error
}

func (f *fakeFinder) Get(_ context.Context, id int) (*roster.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students[id], nil
}

type failingQueue struct{}

func (failingQueue) Publish(context.Context, queue.Message) error {
	return errors.New("redis down")
}

func (failingQueue) Consume(context.Context) (<-chan queue.Message, error) {
	return nil, errors.New("redis down")
}

func TestRecognizeUnknownID(t *testing.T) {
	q := queue.NewInMemory(4)
	svc := NewService(&fakeFinder{students: map[int]*roster.Student{}}, q, 1)

	_, err := svc.Recognize(context.Background(), 99)
	if !errors.Is(err, ErrNotRecognized) {
		t.Fatalf("err = %v, want ErrNotRecognized", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	msgs, _ := q.Consume(ctx)
	cancel()
	if _, ok := <-msgs; ok {
		t.Fatal("unrecognized claim queued a check-in")
	}
}

func TestRecognizeQueuesOneCheckIn(t *testing.T) {
	q := queue.NewInMemory(4)
	finder := &fakeFinder{students: map[int]*roster.Student{
		7: {ID: 7, Name: "Ana", Surname: "Ruiz", Role: roster.RoleStudent},
	}}
	svc := NewService(finder, q, 3)

	before := time.Now().UTC()
	id, err := svc.Recognize(context.Background(), 7)
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}

	msg := <-msgs
	if msg.Type != "checkin" {
		t.Fatalf("message type = %q", msg.Type)
	}
	var c CheckIn
	if err := json.Unmarshal(msg.Body, &c); err != nil {
		t.Fatal(err)
	}
	if c.StudentID != 7 || c.SessionID != 3 {
		t.Fatalf("check-in = %+v", c)
	}
	if c.When.Before(before) {
		t.Fatalf("check-in time %v precedes the claim at %v", c.When, before)
	}

	select {
	case extra := <-msgs:
		t.Fatalf("second message queued: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRecognizeSwallowsPublishFailure(t *testing.T) {
	finder := &fakeFinder{students: map[int]*roster.Student{
		7: {ID: 7, Role: roster.RoleStudent},
	}}
	svc := NewService(finder, failingQueue{}, 1)

	id, err := svc.Recognize(context.Background(), 7)
	if err != nil {
		t.Fatalf("recognize failed on a dead queue: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
}

func TestRecognizeSurfacesStoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&fakeFinder{err: boom}, queue.NewInMemory(1), 1)

	if _, err := svc.Recognize(context.Background(), 7); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the store failure", err)
	}
}
