package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Type tags the kind of event a notification reports.
type Type string

const (
	TypeChat          Type = "chat"
	TypeServiceUpdate Type = "service_update"
	TypeBooking       Type = "booking"
	TypePayment       Type = "payment"
	TypeGeneric       Type = "generic"
)

// ID is an opaque identifier. The API sends integers; any JSON scalar is
// accepted and kept as its string form.
type ID string

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*id = ""
			return nil
		}
		*id = ID(s)
	case data[0] == 't' || data[0] == 'f' || data[0] == '{' || data[0] == '[':
		*id = ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			*id = ""
			return nil
		}
		*id = ID(n.String())
	}
	return nil
}

// MarshalJSON writes numeric ids as numbers so they round-trip unchanged.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Notification is a server-produced event record shown in the bell.
type Notification struct {
	// ID is stable across polls and unique within a store.
	ID ID `json:"id"`

	Title   string `json:"title"`
	Message string `json:"message"`

	// Type is the top-level tag. Unknown values are kept verbatim.
	Type Type `json:"type"`

	// IsRead only ever moves from false to true on the client.
	IsRead bool `json:"is_read"`

	// CreatedAt is for display only; store order is server order.
	CreatedAt time.Time `json:"created_at"`

	// Payload is the decoded extra_data, keyed by Type.
	Payload Payload `json:"-"`
}

// timeLayouts are tried in order when decoding created_at.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats the API has been seen to send.
// Unknown formats yield the zero time.
func ParseTimestamp(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// wireNotification mirrors the JSON shape of the API. Scalar fields are kept
// raw so a wrong-typed value degrades that field instead of the record.
type wireNotification struct {
	ID        ID              `json:"id"`
	Title     json.RawMessage `json:"title"`
	Message   json.RawMessage `json:"message"`
	Type      json.RawMessage `json:"type"`
	IsRead    json.RawMessage `json:"is_read"`
	CreatedAt json.RawMessage `json:"created_at"`
	ExtraData json.RawMessage `json:"extra_data"`
}

// UnmarshalJSON decodes a notification permissively: a bad timestamp, payload
// or scalar never fails the whole record. Only a value that is not a JSON
// object is an error.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var w wireNotification
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var extra ExtraData
	if len(w.ExtraData) > 0 {
		extra = DecodeExtraData(w.ExtraData)
	}

	t := Type(coerceString(w.Type))
	*n = Notification{
		ID:        w.ID,
		Title:     coerceString(w.Title),
		Message:   coerceString(w.Message),
		Type:      t,
		IsRead:    coerceBool(w.IsRead),
		CreatedAt: ParseTimestamp(coerceString(w.CreatedAt)),
		Payload:   NewPayload(t, extra),
	}
	return nil
}

// coerceString returns strings as-is and numbers in their literal form.
// Anything else is "".
func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if json.Unmarshal(raw, &num) == nil {
			return num.String()
		}
	}
	return ""
}

// coerceBool accepts booleans, 0/1 and "true"/"false". Anything else is
// false, i.e. unread.
func coerceBool(raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	if v, err := strconv.ParseBool(coerceString(raw)); err == nil {
		return v
	}
	return false
}

// wireOut is the shape MarshalJSON writes.
type wireOut struct {
	ID        ID              `json:"id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Type      Type            `json:"type"`
	IsRead    bool            `json:"is_read"`
	CreatedAt string          `json:"created_at"`
	ExtraData json.RawMessage `json:"extra_data"`
}

// MarshalJSON writes the notification back in the API's wire shape.
func (n Notification) MarshalJSON() ([]byte, error) {
	var createdAt string
	if !n.CreatedAt.IsZero() {
		createdAt = n.CreatedAt.Format(time.RFC3339Nano)
	}

	var extra json.RawMessage
	if n.Payload != nil {
		data, err := json.Marshal(ExtraDataOf(n.Payload))
		if err != nil {
			return nil, err
		}
		extra = data
	}

	return json.Marshal(wireOut{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: createdAt,
		ExtraData: extra,
	})
}
