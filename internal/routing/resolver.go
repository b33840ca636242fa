// Package routing decides where selecting a notification takes the viewer.
//
// The decision is an ordered rule list; the first rule that matches wins:
//
//  1. chat: vendor → /vendor/messages, organizer → /dashboard/vendors,
//     anyone else → /my-events/messages, each carrying the sender if known
//  2. service_update for an organizer → /dashboard/vendors with the vendor
//  3. extra_data.type "booking" for a vendor → /vendor/bookings
//  4. payment, or a payload referencing an organizer request, for a user →
//     /my-events/payments
//  5. any payload referencing an event → the role's event page
//  6. nothing
package routing

import "github.com/sqlainsaad5/eventify-bell/internal/model"

// App paths a notification can lead to.
const (
	PathVendorMessages  = "/vendor/messages"
	PathVendorBookings  = "/vendor/bookings"
	PathDashboardVendor = "/dashboard/vendors"
	PathDashboardEvents = "/dashboard/events"
	PathMyEvents        = "/my-events"
	PathMyMessages      = "/my-events/messages"
	PathMyPayments      = "/my-events/payments"
)

const bookingKind = "booking"

// rule returns a destination and true when it matches.
type rule func(p model.Payload, role model.Role) (Destination, bool)

var rules = []rule{
	chatRule,
	serviceUpdateRule,
	bookingRule,
	paymentRule,
	eventRule,
}

// Resolve maps a payload and viewer role to a destination. The second result
// is false when the notification has nowhere to go. Resolve is pure and
// accepts any input, including a nil payload.
func Resolve(p model.Payload, role model.Role) (Destination, bool) {
	if p == nil {
		p = model.BasicPayload{Tag: model.TypeGeneric}
	}

	for _, r := range rules {
		if d, ok := r(p, role); ok {
			return d, true
		}
	}
	return Destination{}, false
}

// ResolveNotification resolves n's payload for role.
func ResolveNotification(n model.Notification, role model.Role) (Destination, bool) {
	if n.Payload == nil {
		return Resolve(model.NewPayload(n.Type, model.ExtraData{}), role)
	}
	return Resolve(n.Payload, role)
}

func chatRule(p model.Payload, role model.Role) (Destination, bool) {
	chat, ok := p.(model.ChatPayload)
	if !ok {
		return Destination{}, false
	}

	switch role {
	case model.RoleVendor:
		return withOptional(PathVendorMessages, "organizerId", chat.SenderID), true
	case model.RoleOrganizer:
		return withOptional(PathDashboardVendor, "vendorId", chat.SenderID), true
	default:
		return withOptional(PathMyMessages, "organizerId", chat.SenderID), true
	}
}

func serviceUpdateRule(p model.Payload, role model.Role) (Destination, bool) {
	update, ok := p.(model.ServiceUpdatePayload)
	if !ok || role != model.RoleOrganizer {
		return Destination{}, false
	}

	d := Destination{Path: PathDashboardVendor}
	if present(update.VendorID) {
		d.Query = []Param{
			{Name: "vendorId", Value: update.VendorID.String()},
			{Name: "openServices", Value: "true"},
		}
	}
	return d, true
}

func bookingRule(p model.Payload, role model.Role) (Destination, bool) {
	if role != model.RoleVendor || p.References().Kind != bookingKind {
		return Destination{}, false
	}
	return Destination{Path: PathVendorBookings}, true
}

func paymentRule(p model.Payload, role model.Role) (Destination, bool) {
	if role != model.RoleUser {
		return Destination{}, false
	}
	if p.Type() != model.TypePayment && !present(p.References().OrganizerRequestID) {
		return Destination{}, false
	}
	return Destination{Path: PathMyPayments}, true
}

func eventRule(p model.Payload, role model.Role) (Destination, bool) {
	if !present(p.References().EventID) {
		return Destination{}, false
	}

	switch role {
	case model.RoleUser:
		return Destination{Path: PathMyEvents}, true
	case model.RoleOrganizer:
		return Destination{Path: PathDashboardEvents}, true
	case model.RoleVendor:
		return Destination{Path: PathVendorBookings}, true
	default:
		return Destination{}, false
	}
}

// withOptional builds a destination whose single parameter is omitted when
// value is absent.
func withOptional(path, name string, value model.ID) Destination {
	d := Destination{Path: path}
	if present(value) {
		d.Query = []Param{{Name: name, Value: value.String()}}
	}
	return d
}

// present reports whether a reference id is set. The backend uses 0 for
// "none", so a zero id counts as absent.
func present(id model.ID) bool {
	return !id.IsZero() && id != "0"
}
