package campus

import "encoding/json"

// DTOs for the campus portal wire format. The portal speaks form-encoded
// requests and small JSON envelopes; resource payloads inside the envelope
// are opaque and pass through untouched.

// LoginResponseDTO is the /login success envelope.
type LoginResponseDTO struct {
	Success bool `json:"success"`
}

// ResourceResponseDTO is the envelope for /attendance, /results and
// /timetable. Data is owned by the portal; its internal structure is not
// validated here.
type ResourceResponseDTO struct {
	Data json.RawMessage `json:"data"`
}

// APIErrorDTO is the error body the portal attaches to non-2xx responses.
type APIErrorDTO struct {
	Detail string `json:"detail"`
}
