package model

import "encoding/json"

// ExtraData is the flat wire shape of a notification's extra_data object.
// Every field is optional.
type ExtraData struct {
	// Kind is extra_data.type, a sub-tag that may differ from the
	// notification's own type (e.g. a payment about a booking).
	Kind               string `json:"type,omitempty"`
	SenderID           ID     `json:"sender_id,omitempty"`
	VendorID           ID     `json:"vendor_id,omitempty"`
	EventID            ID     `json:"event_id,omitempty"`
	OrganizerRequestID ID     `json:"organizer_request_id,omitempty"`
}

// DecodeExtraData decodes raw extra_data. Anything that is not a JSON object,
// or that has fields of the wrong shape, yields an empty ExtraData.
func DecodeExtraData(raw json.RawMessage) ExtraData {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ExtraData{}
	}

	var x ExtraData
	if v, ok := fields["type"]; ok {
		var kind string
		if json.Unmarshal(v, &kind) == nil {
			x.Kind = kind
		}
	}
	decodeID(fields, "sender_id", &x.SenderID)
	decodeID(fields, "vendor_id", &x.VendorID)
	decodeID(fields, "event_id", &x.EventID)
	decodeID(fields, "organizer_request_id", &x.OrganizerRequestID)
	return x
}

func decodeID(fields map[string]json.RawMessage, key string, dst *ID) {
	if v, ok := fields[key]; ok {
		_ = dst.UnmarshalJSON(v)
	}
}

// Refs holds the references any payload variant may carry.
type Refs struct {
	Kind               string
	EventID            ID
	OrganizerRequestID ID
}

// Payload is the decoded extra_data of a notification. The concrete type is
// chosen by the notification's Type: ChatPayload, ServiceUpdatePayload, or
// BasicPayload for everything else.
type Payload interface {
	// Type returns the notification type the payload was decoded for.
	Type() Type
	// References returns the cross-cutting references.
	References() Refs
}

// ChatPayload is the payload of a chat notification.
type ChatPayload struct {
	SenderID ID
	Refs
}

func (ChatPayload) Type() Type         { return TypeChat }
func (p ChatPayload) References() Refs { return p.Refs }

// ServiceUpdatePayload is the payload of a vendor service update.
type ServiceUpdatePayload struct {
	VendorID ID
	Refs
}

func (ServiceUpdatePayload) Type() Type         { return TypeServiceUpdate }
func (p ServiceUpdatePayload) References() Refs { return p.Refs }

// BasicPayload covers booking, payment, generic and unrecognized types.
type BasicPayload struct {
	Tag Type
	Refs
}

func (p BasicPayload) Type() Type       { return p.Tag }
func (p BasicPayload) References() Refs { return p.Refs }

// NewPayload builds the payload variant for t from the flat wire fields.
// Fields that do not belong to the variant are dropped.
func NewPayload(t Type, x ExtraData) Payload {
	refs := Refs{
		Kind:               x.Kind,
		EventID:            x.EventID,
		OrganizerRequestID: x.OrganizerRequestID,
	}

	switch t {
	case TypeChat:
		return ChatPayload{SenderID: x.SenderID, Refs: refs}
	case TypeServiceUpdate:
		return ServiceUpdatePayload{VendorID: x.VendorID, Refs: refs}
	default:
		return BasicPayload{Tag: t, Refs: refs}
	}
}

// ExtraDataOf flattens a payload back into its wire fields.
func ExtraDataOf(p Payload) ExtraData {
	if p == nil {
		return ExtraData{}
	}

	refs := p.References()
	x := ExtraData{
		Kind:               refs.Kind,
		EventID:            refs.EventID,
		OrganizerRequestID: refs.OrganizerRequestID,
	}
	switch v := p.(type) {
	case ChatPayload:
		x.SenderID = v.SenderID
	case ServiceUpdatePayload:
		x.VendorID = v.VendorID
	}
	return x
}
