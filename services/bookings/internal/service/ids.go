package service

import (
	"strings"

	"github.com/google/uuid"
)

// canonicalID parses a client-supplied id. Stored ids are lowercase UUIDs,
// so anything that does not parse cannot name a stored record.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return u.String(), true
}
