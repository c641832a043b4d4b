package model

type RegisterDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

// RegisterMessage is a Home Assistant MQTT discovery payload for one sensor.
type RegisterMessage struct {
	Name              string         `json:"name"`
	ID                string         `json:"unique_id"`
	StateTopic        string         `json:"state_topic"`
	UnitOfMeasurement string         `json:"unit_of_measurement,omitempty"`
	DeviceClass       string         `json:"device_class,omitempty"`
	ValueTemplate     string         `json:"value_template"`
	Device            RegisterDevice `json:"device"`
}

// SensorState is the payload published on a sensor's state topic.
type SensorState struct {
	Value             float64 `json:"value"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	Timestamp         string  `json:"timestamp"`
}
