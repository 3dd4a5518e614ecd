package docutil

import (
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/edudesk/edudesk-api/internal/apperr"
)

// Strategy controls how document-to-model conversion reacts to invalid
// input. It is fixed when the Converter is built, not chosen per call.
type Strategy int

const (
	// RaiseOnInvalid fails the whole conversion on the first bad document.
	RaiseOnInvalid Strategy = iota
	// LogAndSkip drops bad documents from list conversions and logs them.
	LogAndSkip
	// SkipInvalid drops bad documents silently.
	SkipInvalid
)

// Converter maps raw BSON documents onto typed models. List conversions
// under LogAndSkip and SkipInvalid may silently drop elements; callers
// that cannot tolerate partial output must use RaiseOnInvalid.
type Converter struct {
	strategy Strategy
	logger   zerolog.Logger
}

// NewConverter builds a converter with the given failure strategy.
func NewConverter(strategy Strategy, logger zerolog.Logger) *Converter {
	return &Converter{
		strategy: strategy,
		logger:   logger.With().Str("component", "docutil").Logger(),
	}
}

// Decode converts a single document into out, which must be a pointer to a
// model struct. An empty document is a validation failure, not a no-op.
func Decode(doc bson.M, out any) error {
	if len(doc) == 0 {
		return apperr.BadRequest("document must be a non-empty mapping")
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return apperr.Validation("document does not match model", map[string]string{"_": err.Error()}).WithCause(err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return apperr.Validation("document does not match model", map[string]string{"_": err.Error()}).WithCause(err)
	}
	return nil
}

// DecodeList converts a slice of documents, applying the converter's
// strategy element-wise. Under RaiseOnInvalid the whole call fails and no
// partial result is returned.
func DecodeList[T any](c *Converter, docs []bson.M) ([]T, error) {
	models := make([]T, 0, len(docs))
	for i, doc := range docs {
		var model T
		if err := Decode(doc, &model); err != nil {
			switch c.strategy {
			case RaiseOnInvalid:
				return nil, apperr.Validation("invalid document in list", map[string]string{"index": err.Error()}).WithCause(err).WithDetail("index", i)
			case LogAndSkip:
				c.logger.Warn().Err(err).Int("index", i).Msg("skipping invalid document")
				continue
			default:
				continue
			}
		}
		models = append(models, model)
	}
	return models, nil
}
