// ABOUTME: JSON-encoded nested column types with defined empty defaults.
// ABOUTME: NULL, empty, or malformed stored text decodes to [] or {} instead of failing.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// List is an array attribute stored as JSON text.
type List[T any] []T

// Value encodes the list as JSON. A nil list is stored as "[]".
func (l List[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return encodeJSON([]T(l))
}

// Scan decodes stored JSON. Anything that is not a valid JSON array
// yields an empty, non-nil list.
func (l *List[T]) Scan(src any) error {
	var out []T
	if !decodeJSON(src, &out) || out == nil {
		*l = List[T]{}
		return nil
	}
	*l = out
	return nil
}

// OrEmpty returns l, or an empty non-nil list when l is nil.
func (l List[T]) OrEmpty() List[T] {
	if l == nil {
		return List[T]{}
	}
	return l
}

// Strings builds a string list from its arguments.
func Strings(values ...string) List[string] {
	return append(List[string]{}, values...)
}

// Preferences describes when, where and how a client likes to train.
type Preferences struct {
	WorkoutDays     []string `json:"workoutDays,omitempty"`
	WorkoutTime     string   `json:"workoutTime,omitempty"`
	WorkoutDuration int      `json:"workoutDuration,omitempty"`
	Equipment       []string `json:"equipment,omitempty"`
	Location        string   `json:"location,omitempty"`
	Intensity       string   `json:"intensity,omitempty"`
}

// Value encodes preferences as a JSON object.
func (p Preferences) Value() (driver.Value, error) {
	return encodeJSON(p)
}

// OrEmpty returns p with nil list fields replaced by empty lists.
func (p Preferences) OrEmpty() Preferences {
	if p.WorkoutDays == nil {
		p.WorkoutDays = []string{}
	}
	if p.Equipment == nil {
		p.Equipment = []string{}
	}
	return p
}

// UnmarshalJSON decodes preferences with list fields never nil.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	type plain Preferences
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*p = Preferences(out).OrEmpty()
	return nil
}

// Scan decodes a JSON object; bad input yields empty preferences.
func (p *Preferences) Scan(src any) error {
	var out Preferences
	if !decodeJSON(src, &out) {
		out = Preferences{}
	}
	*p = out.OrEmpty()
	return nil
}

// Circumferences are body measurements in centimetres.
type Circumferences struct {
	Chest  *float64 `json:"chest,omitempty"`
	Waist  *float64 `json:"waist,omitempty"`
	Hips   *float64 `json:"hips,omitempty"`
	Arms   *float64 `json:"arms,omitempty"`
	Thighs *float64 `json:"thighs,omitempty"`
}

// Measurements is the latest body composition snapshot for a client.
type Measurements struct {
	Height         *float64        `json:"height,omitempty"`
	Weight         *float64        `json:"weight,omitempty"`
	BodyFat        *float64        `json:"bodyFat,omitempty"`
	Circumferences *Circumferences `json:"measurements,omitempty"`
	LastUpdated    string          `json:"lastUpdated,omitempty"`
}

// Value encodes measurements as a JSON object.
func (m Measurements) Value() (driver.Value, error) {
	return encodeJSON(m)
}

// Scan decodes a JSON object; bad input yields empty measurements.
func (m *Measurements) Scan(src any) error {
	var out Measurements
	if !decodeJSON(src, &out) {
		out = Measurements{}
	}
	*m = out
	return nil
}

// EmergencyContact is who to call when something goes wrong in a session.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// ContactInfo holds how to reach a client.
type ContactInfo struct {
	Phone            string            `json:"phone,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

// Value encodes contact info as a JSON object.
func (c ContactInfo) Value() (driver.Value, error) {
	return encodeJSON(c)
}

// Scan decodes a JSON object; bad input yields empty contact info.
func (c *ContactInfo) Scan(src any) error {
	var out ContactInfo
	if !decodeJSON(src, &out) {
		out = ContactInfo{}
	}
	*c = out
	return nil
}

func encodeJSON(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return string(data), nil
}

// decodeJSON reports whether src held valid JSON for dst.
func decodeJSON(src any, dst any) bool {
	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return false
	}
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}
