package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// objectID parses a hex id. An id that cannot be an ObjectID cannot match any record,
// so callers treat !ok as "not found".
func objectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return oid, true
}

// stamp truncates to the millisecond precision BSON dates keep, so stored and returned
// times compare equal.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
