package api

// Envelope is the single outward response shape for every operation,
// success or failure. Message is either a string or a structured payload.
type Envelope struct {
	Status  int `json:"status"`
	Message any `json:"message"`
}
