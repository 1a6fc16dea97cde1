package domain

import "log/slog"

// Password holds a plaintext password while a request is in flight.
// It redacts itself in fmt output and JSON so it cannot leak into logs.
type Password string

const redacted = "[REDACTED]"

func (p Password) String() string {
	return redacted
}

func (p Password) GoString() string {
	return redacted
}

func (p Password) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

func (p Password) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// Reveal returns the raw plaintext. Only the password hasher should need it.
func (p Password) Reveal() string {
	return string(p)
}
