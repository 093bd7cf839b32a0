package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"studenthub-server-go/internal/domain/eventbus"
	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/logging"
)

// Topic carries audit events across the bus.
const Topic = "audit.record"

// Actions recorded by the backend.
const (
	ActionLogin         = "user.login"
	ActionLogout        = "user.logout"
	ActionRegister      = "user.register"
	ActionStudentCreate = "student.create"
	ActionStudentUpdate = "student.update"
	ActionStudentDelete = "student.delete"
)

// Event is one auditable action. Details is free-form context serialized
// into the audit log's JSON column.
type Event struct {
	UserID     *uint
	Action     string
	EntityType string
	EntityID   *uint
	Details    map[string]interface{}
	IPAddress  string
	UserAgent  string
}

// Writer persists audit rows; implemented by the storage layer.
type Writer interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Recorder subscribes to the audit topic and persists events fire-and-forget.
// A failed write is logged and dropped; auditing never fails the request that
// produced the event.
type Recorder struct {
	bus    *eventbus.Bus
	writer Writer
	logger *logging.Logger
}

func NewRecorder(bus *eventbus.Bus, writer Writer, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{
		bus:    bus,
		writer: writer,
		logger: logger,
	}
}

// Start registers the recorder on the bus.
func (r *Recorder) Start() error {
	return r.bus.Subscribe(Topic, r.handle)
}

// Stop removes the subscription.
func (r *Recorder) Stop() error {
	return r.bus.Unsubscribe(Topic, r.handle)
}

func (r *Recorder) handle(event Event) {
	row := &models.AuditLog{
		UserID:     event.UserID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		IPAddress:  event.IPAddress,
		UserAgent:  event.UserAgent,
		CreatedAt:  time.Now(),
	}
	if len(event.Details) > 0 {
		data, err := json.Marshal(event.Details)
		if err != nil {
			r.logger.WarnTag("AUDIT", "dropping unserializable details for %s: %v", event.Action, err)
		} else {
			row.Details = datatypes.JSON(data)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.writer.CreateAuditLog(ctx, row); err != nil {
		r.logger.WarnTag("AUDIT", "failed to record %s: %v", event.Action, err)
	}
}

// Publish queues an audit event without blocking the caller.
func Publish(bus *eventbus.Bus, event Event) {
	if bus == nil {
		return
	}
	bus.PublishAsync(Topic, event)
}
