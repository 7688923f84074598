package types

// RedactedPlaceholder is the string used to replace secret values in logs and serialization.
const RedactedPlaceholder = "***REDACTED***"

// redactedJSON is the pre-computed JSON encoding of the redacted placeholder.
var redactedJSON = []byte(`"***REDACTED***"`)

// SecretString is a string type that prevents accidental logging or serialization
// of tokens. String() and MarshalJSON() return a redacted placeholder.
//
// Use Unmask() to retrieve the raw value when it is genuinely needed
// (building the Authorization header, creating the Telegram bot).
type SecretString string

// String returns a redacted placeholder instead of the raw value.
func (s SecretString) String() string {
	return RedactedPlaceholder
}

// MarshalJSON returns the redacted placeholder as a JSON string.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return redactedJSON, nil
}

// Unmask returns the raw plaintext value of the secret.
func (s SecretString) Unmask() string {
	return string(s)
}

// IsEmpty reports whether the secret holds no value.
func (s SecretString) IsEmpty() bool {
	return s == ""
}
