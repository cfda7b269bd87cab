package types

import "log/slog"

const redacted = "***REDACTED***"

// SecretString holds a credential such as an API key or a database URL.
// Formatting, JSON encoding and slog output all print a placeholder.
type SecretString string

// String implements fmt.Stringer.
func (s SecretString) String() string {
	return redacted
}

// GoString keeps %#v from printing the raw value.
func (s SecretString) GoString() string {
	return redacted
}

// MarshalJSON implements json.Marshaler.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// LogValue implements slog.LogValuer.
func (s SecretString) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// Unmask returns the raw value. Only pass the result to the client or
// driver that needs it.
func (s SecretString) Unmask() string {
	return string(s)
}

// IsZero reports whether no secret was configured.
func (s SecretString) IsZero() bool {
	return s == ""
}
