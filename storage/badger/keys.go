package badger

import (
	"fmt"

	"github.com/poiesic/profilematch/core"
)

// Key prefixes for different data types
const (
	pointPrefix        = "embpt"
	availabilityPrefix = "avrec"
)

// makePointKey generates a key for an embedding point by its ID.
func makePointKey(pointID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", pointPrefix, pointID))
}

// makeDocumentPrefix generates the key prefix shared by all points of a
// document. Point IDs are "<doc>_skills" and "<doc>_exp_<i>", so the
// trailing underscore keeps "cv_1" from matching "cv_12" points.
func makeDocumentPrefix(documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s_", pointPrefix, documentID))
}

// makeAvailabilityKey generates a key for an availability record.
func makeAvailabilityKey(key core.ReconciliationKey) []byte {
	return []byte(fmt.Sprintf("%s:%d", availabilityPrefix, key))
}
