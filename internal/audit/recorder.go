package audit

import (
	"passport/internal/models"
	"passport/internal/utils"
	"passport/internal/utils/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is one audit record to be persisted. Snapshot is the affected entity
// at event time and is marshalled to JSON on the worker goroutine.
type Event struct {
	Kind      string
	Actor     string
	Entity    string
	Snapshot  any
	IPAddress string
	UserAgent string
}

// Recorder is a fire-and-forget audit sink. Record never blocks the request
// path: events go through a bounded channel to a single worker goroutine,
// and when the queue is full the event is dropped and logged. Write failures
// are logged and swallowed; they must never fail the triggering operation.
type Recorder struct {
	db     *gorm.DB
	events chan Event
	done   chan struct{}
	log    *logger.Logger
}

func NewRecorder(db *gorm.DB, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	r := &Recorder{
		db:     db,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		log:    logger.New("AUDIT"),
	}
	go r.run()
	return r
}

// Record queues an event for persistence. Non-blocking: a full queue drops
// the event with a warning rather than delaying the caller.
func (r *Recorder) Record(event Event) {
	if event.Actor == "" {
		event.Actor = "system"
	}

	select {
	case r.events <- event:
	default:
		r.log.Warn("audit queue full, dropping event %s", event.Kind)
	}
}

// Close drains the queue and stops the worker. Events already queued are
// still written.
func (r *Recorder) Close() {
	close(r.events)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for event := range r.events {
		r.write(event)
	}
}

func (r *Recorder) write(event Event) {
	row := models.AuditLog{
		EventID:   uuid.NewString(),
		EventKind: event.Kind,
		Actor:     event.Actor,
		Entity:    event.Entity,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
	}

	if event.Snapshot != nil {
		snapshot, err := utils.EntityJSON(event.Snapshot)
		if err != nil {
			r.log.Warn("failed to marshal audit snapshot for %s: %v", event.Kind, err)
		} else {
			row.Snapshot = snapshot
		}
	}

	if err := r.db.Create(&row).Error; err != nil {
		r.log.Error("failed to write audit event %s", err, event.Kind)
	}
}
