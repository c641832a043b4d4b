package model

import (
	"fmt"
	"strings"
)

type Field string

func (f Field) String() string {
	return string(f)
}

const (
	Temperature Field = "temperature"
	Humidity    Field = "humidity"
	Oxygen      Field = "oxygen"
)

// Fields lists the sensor series in column order of the history file.
var Fields = []Field{Temperature, Humidity, Oxygen}

var ErrUnknownField = fmt.Errorf("unknown field, expected one of %v", Fields)

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Temperature, Humidity, Oxygen:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownField)
}

// Value returns the reading of field f held by r.
func (f Field) Value(r Record) *float64 {
	switch f {
	case Temperature:
		return r.Temperature
	case Humidity:
		return r.Humidity
	case Oxygen:
		return r.Oxygen
	}
	return nil
}

func (f Field) Unit() string {
	switch f {
	case Temperature:
		return "°C"
	case Humidity, Oxygen:
		return "%"
	}
	return ""
}

func (f Field) Title() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}
