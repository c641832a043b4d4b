package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
	"github.com/anicoll/traci-dashboard/internal/pkg/store"
)

// Write publishes the newest of records as the current state of each sensor.
// Records that are not newer than the last published one are ignored.
func (s *service) Write(ctx context.Context, records model.Records) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.register(ctx); err != nil {
		return err
	}

	latest, ok := records.Latest()
	if !ok || !latest.Timestamp.After(s.lastSent) {
		return nil
	}

	for _, field := range model.Fields {
		value := field.Value(latest)
		if value == nil {
			continue
		}
		payload, err := json.Marshal(model.SensorState{
			Value:             *value,
			UnitOfMeasurement: field.Unit(),
			Timestamp:         latest.Timestamp.Format(store.TimestampLayout),
		})
		if err != nil {
			return err
		}
		if err := wait(ctx, s.client.Publish(s.stateTopic(field), 0, false, payload)); err != nil {
			return err
		}
	}
	s.lastSent = latest.Timestamp
	s.logger.Debug("published sensor state", zap.Time("timestamp", latest.Timestamp))
	return nil
}

// register publishes retained discovery configs once per process.
func (s *service) register(ctx context.Context) error {
	if s.registered {
		return nil
	}
	for _, field := range model.Fields {
		msg := s.registerMsg(field)
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		topic := fmt.Sprintf("homeassistant/sensor/%s/config", msg.ID)
		if err := wait(ctx, s.client.Publish(topic, 1, true, payload)); err != nil {
			return err
		}
		s.logger.Info("registered sensor", zap.String("sensor", msg.ID))
	}
	s.registered = true
	return nil
}

func (s *service) stateTopic(field model.Field) string {
	return fmt.Sprintf("%s/%s/%s/state", s.prefix, identifier(s.sourceName), field)
}

func (s *service) registerMsg(field model.Field) model.RegisterMessage {
	device := identifier(s.sourceName)
	deviceClass := ""
	switch field {
	case model.Temperature:
		deviceClass = "temperature"
	case model.Humidity:
		deviceClass = "humidity"
	}

	return model.RegisterMessage{
		Name:              fmt.Sprintf("%s %s", s.sourceName, field),
		ID:                identifier(s.sourceName + " " + field.String()),
		StateTopic:        s.stateTopic(field),
		UnitOfMeasurement: field.Unit(),
		DeviceClass:       deviceClass,
		ValueTemplate:     "{{ value_json.value }}",
		Device: model.RegisterDevice{
			Name:         s.sourceName,
			Identifiers:  []string{device},
			Model:        "listing_ox",
			Manufacturer: "TRACI",
		},
	}
}
