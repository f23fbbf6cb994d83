package analytics

import (
	"bytes"
	"encoding/json"
)

// ScanEvent is one logged scan/action occurrence from a handheld device.
// Events are immutable once fetched and scoped to a single calendar day.
type ScanEvent struct {
	LogID      string   `json:"logId"`
	UserID     string   `json:"userId,omitempty"`
	Screen     string   `json:"screen,omitempty"`
	ActionName string   `json:"actionName,omitempty"`
	Success    FlexBool `json:"success"`
}

// Action returns the event's action category. Older device firmware wrote
// actionName, newer firmware writes screen.
func (e ScanEvent) Action() string {
	if e.Screen != "" {
		return e.Screen
	}
	return e.ActionName
}

// FlexBool coerces the success flag at the ingestion boundary. Devices send
// it as a JSON bool or as the literal strings "true"/"false"; anything else
// counts as false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	*b = FlexBool(normalizeSuccess(data))
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

func normalizeSuccess(data []byte) bool {
	data = bytes.TrimSpace(data)
	return bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte(`"true"`))
}

// NormalizeSuccess reports whether a raw success value is truthy, accepting
// the bool true and the string "true" as equivalent.
func NormalizeSuccess(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}
