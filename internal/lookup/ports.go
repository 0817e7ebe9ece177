// Package lookup holds the HTTP collaborators behind tool actions: flight
// status and weather. Conditions such as "not found" or "not configured" come
// back as a descriptive Summary, never as an error; errors mean the lookup
// itself broke (transport or decoding).
package lookup

import "encoding/json"

type FlightQuery struct {
	FlightNumber string
	Date         string // YYYY-MM-DD, optional
}

type RouteQuery struct {
	OriginCity      string
	DestinationCity string
}

// Result is what a lookup hands back to the conversation.
type Result struct {
	Summary string
	// Raw is the provider payload, kept for logs and the audit trail only.
	Raw json.RawMessage
	// ArrivalLocation is set by flight lookups when the destination is known.
	ArrivalLocation string
}
