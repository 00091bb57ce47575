// Package stream provides DynamoDB Streams handlers that report attribute
// changes of stored models.
package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/jacentio/modelattr/attribute"
	"github.com/jacentio/modelattr/schemadef"
)

// ChangeSet is the change log of one stream record.
type ChangeSet struct {
	EventID   string
	EventName string
	Table     string
	Model     string

	// Keys is the primary key of the item as plain values.
	Keys map[string]any

	// Changes maps each changed attribute to its new value in JSON form.
	// Attributes changed to Absent are nil.
	Changes map[string]any
}

// Sink receives the change sets of a stream batch. An error fails the batch.
type Sink func(ctx context.Context, cs ChangeSet) error

// Handler processes DynamoDB stream events into change sets.
type Handler struct {
	registry *schemadef.Registry
	sink     Sink
	logger   zerolog.Logger
	config   Config
	metrics  *Metrics
}

// NewHandler creates a new stream handler. A nil sink discards change sets
// and a nil logger discards log output.
func NewHandler(registry *schemadef.Registry, sink Sink, logger *zerolog.Logger) *Handler {
	if sink == nil {
		sink = func(context.Context, ChangeSet) error { return nil }
	}
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Handler{
		registry: registry,
		sink:     sink,
		logger:   l,
		config:   DefaultConfig(),
	}
}

// SetConfig replaces the handler configuration.
func (h *Handler) SetConfig(config Config) {
	config.validate()
	h.config = config
}

// SetMetrics sets the collectors the handler updates, or nil for none.
func (h *Handler) SetMetrics(m *Metrics) {
	h.metrics = m
}

// errInvalidImage marks records whose images cannot be loaded into the schema.
var errInvalidImage = errors.New("invalid image")

// HandleChanges processes DynamoDB stream events and passes a change set for
// every record that changed at least one attribute to the sink.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleChanges(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		err := h.processRecord(ctx, record)
		if errors.Is(err, errInvalidImage) && !h.config.FailOnInvalid {
			h.metrics.record(OutcomeInvalid)
			h.logger.Error().
				Str("eventID", record.EventID).
				Err(err).
				Msg("skipping record with invalid image")
			continue
		}
		if err != nil {
			h.metrics.record(OutcomeFailed)
			h.logger.Error().
				Str("eventID", record.EventID).
				Err(err).
				Msg("failed to process record")
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if !h.config.handles(record.EventName) {
		h.metrics.record(OutcomeSkipped)
		return nil
	}

	table, err := TableFromARN(record.EventSourceArn)
	if err != nil {
		h.metrics.record(OutcomeSkipped)
		h.logger.Warn().Str("eventID", record.EventID).Err(err).Msg("skipping record without table")
		return nil
	}
	schema, ok := h.registry.ForTable(table)
	if !ok {
		h.metrics.record(OutcomeSkipped)
		h.logger.Debug().Str("table", table).Msg("skipping record of unregistered table")
		return nil
	}

	m, err := changedModel(schema, record)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errInvalidImage, table, err)
	}

	changes := m.ChangesForJSON()
	if len(changes) == 0 {
		h.metrics.record(OutcomeUnchanged)
		return nil
	}

	keys, err := imageValues(record.Change.Keys)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errInvalidImage, table, err)
	}

	cs := ChangeSet{
		EventID:   record.EventID,
		EventName: record.EventName,
		Table:     table,
		Model:     schema.Name(),
		Keys:      keys,
		Changes:   changes,
	}
	if err := h.sink(ctx, cs); err != nil {
		return fmt.Errorf("sink: %w", err)
	}

	h.metrics.record(OutcomeChanged)
	h.metrics.changed(len(changes))
	h.logger.Debug().
		Str("eventID", record.EventID).
		Str("model", schema.Name()).
		Int("changed", len(changes)).
		Msg("reported changes")
	return nil
}

// changedModel loads the old image of record as the baseline and applies the
// new image. Attributes missing from the new image revert to their default,
// and a removed item sets every attribute of the old image to Absent.
func changedModel(schema *attribute.Schema, record events.DynamoDBEventRecord) (*attribute.Model, error) {
	m := schema.New()

	old, err := imageValues(record.Change.OldImage)
	if err != nil {
		return nil, err
	}
	if err := m.SetAttributes(old, true); err != nil {
		return nil, fmt.Errorf("old image: %w", err)
	}
	m.ClearChanges()

	next := make(map[string]any, schema.Len())
	if record.EventName == EventRemove {
		for name := range old {
			next[name] = nil
		}
	} else {
		values, err := imageValues(record.Change.NewImage)
		if err != nil {
			return nil, err
		}
		for _, name := range schema.Attributes() {
			if v, ok := values[name]; ok {
				next[name] = v
				continue
			}
			def, _ := schema.Default(name)
			next[name] = def
		}
	}

	if err := m.SetAttributes(next, true); err != nil {
		return nil, fmt.Errorf("new image: %w", err)
	}
	return m, nil
}

// LogSink returns a Sink that logs every change set at info level.
func LogSink(logger zerolog.Logger) Sink {
	return func(_ context.Context, cs ChangeSet) error {
		logger.Info().
			Str("eventID", cs.EventID).
			Str("eventName", cs.EventName).
			Str("table", cs.Table).
			Str("model", cs.Model).
			Interface("keys", cs.Keys).
			Interface("changes", cs.Changes).
			Msg("attributes changed")
		return nil
	}
}
