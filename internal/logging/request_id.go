package logging

import "github.com/google/uuid"

// GenerateRequestID returns a unique ID suitable for a scoped save block or
// a rebuild run, attached to a Logger via WithRequestID.
func GenerateRequestID() string {
	return uuid.NewString()
}
