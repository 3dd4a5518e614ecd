package docutil

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edudesk/edudesk-api/internal/apperr"
)

// ValidateObjectID normalises an identifier into a primitive.ObjectID.
// It accepts an already-typed ObjectID or its 24-hex-digit string form and
// rejects everything else with a bad-request error.
func ValidateObjectID(value any) (primitive.ObjectID, error) {
	switch v := value.(type) {
	case primitive.ObjectID:
		if v.IsZero() {
			return primitive.NilObjectID, apperr.BadRequest("identifier must not be zero")
		}
		return v, nil
	case string:
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return primitive.NilObjectID, apperr.BadRequest("invalid identifier %q", v).WithCause(err)
		}
		return id, nil
	case nil:
		return primitive.NilObjectID, apperr.BadRequest("identifier must not be nil")
	default:
		return primitive.NilObjectID, apperr.BadRequest("unsupported identifier type %T", value)
	}
}
