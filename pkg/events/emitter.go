// Package events handles event emission for directory record lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/metrics"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// Publisher is the subset of the Kafka producer the emitter needs
type Publisher interface {
	PublishDirectoryEvent(ctx context.Context, event *kafka.DirectoryEvent) error
}

// Emitter publishes directory lifecycle events. Emission is best-effort:
// failures are logged and counted but never fail the originating request.
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitBuildingCreated emits a building.created event
func (e *Emitter) EmitBuildingCreated(ctx context.Context, building *models.Building) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitBuildingCreated")
	defer span.End()

	data, _ := json.Marshal(building)
	e.publish(ctx, &kafka.DirectoryEvent{
		EventType:  "building.created",
		EntityID:   building.ID,
		EntityKind: "building",
		Data:       data,
	})
}

// EmitActivityCreated emits an activity.created event
func (e *Emitter) EmitActivityCreated(ctx context.Context, activity *models.Activity) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitActivityCreated")
	defer span.End()

	data, _ := json.Marshal(activity)
	e.publish(ctx, &kafka.DirectoryEvent{
		EventType:  "activity.created",
		EntityID:   activity.ID,
		EntityKind: "activity",
		Data:       data,
	})
}

// EmitOrganizationCreated emits an organization.created event
func (e *Emitter) EmitOrganizationCreated(ctx context.Context, organization *models.Organization) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitOrganizationCreated")
	defer span.End()

	data, _ := json.Marshal(organization)
	e.publish(ctx, &kafka.DirectoryEvent{
		EventType:  "organization.created",
		EntityID:   organization.ID,
		EntityKind: "organization",
		Data:       data,
	})
}

// EmitOrganizationLinked emits an organization.linked event for a new
// organization/activity association
func (e *Emitter) EmitOrganizationLinked(ctx context.Context, organizationID, activityID int64) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitOrganizationLinked")
	defer span.End()

	data, _ := json.Marshal(map[string]int64{
		"organization_id": organizationID,
		"activity_id":     activityID,
	})
	e.publish(ctx, &kafka.DirectoryEvent{
		EventType:  "organization.linked",
		EntityID:   organizationID,
		EntityKind: "organization",
		Data:       data,
	})
}

func (e *Emitter) publish(ctx context.Context, event *kafka.DirectoryEvent) {
	if e.producer == nil {
		return
	}

	if err := e.producer.PublishDirectoryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Errorf("Failed to emit %s event", event.EventType)
		metrics.EventsPublishedTotal.WithLabelValues(event.EventType, "error").Inc()
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(event.EventType, "success").Inc()
}
