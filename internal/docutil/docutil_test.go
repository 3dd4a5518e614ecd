package docutil

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edudesk/edudesk-api/internal/apperr"
)

func TestValidateObjectIDFromString(t *testing.T) {
	want := primitive.NewObjectID()
	got, err := ValidateObjectID(want.Hex())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestValidateObjectIDPassthrough(t *testing.T) {
	want := primitive.NewObjectID()
	got, err := ValidateObjectID(want)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestValidateObjectIDRejectsMalformed(t *testing.T) {
	cases := []any{"not-hex", "abc", "", nil, 42, primitive.NilObjectID}
	for _, input := range cases {
		_, err := ValidateObjectID(input)
		require.Error(t, err)
		require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	}
}

func TestPrepareSafeUpdateStripsProtectedFields(t *testing.T) {
	payload := map[string]any{"_id": "x", "role": "admin", "name": "y"}
	safe := PrepareSafeUpdate(payload)

	require.Equal(t, map[string]any{"name": "y"}, safe)
	// input untouched
	require.Contains(t, payload, "_id")
	require.Contains(t, payload, "role")
}

func TestPrepareSafeUpdateWithCustomSet(t *testing.T) {
	payload := map[string]any{"status": "read", "sender_id": "a"}
	safe := PrepareSafeUpdateWith(payload, "sender_id")
	require.Equal(t, map[string]any{"status": "read"}, safe)
}

func TestFlattenNested(t *testing.T) {
	flat := Flatten(map[string]any{"a": map[string]any{"b": 1, "c": map[string]any{"d": 2}}})
	require.Equal(t, map[string]any{"a.b": 1, "a.c.d": 2}, flat)
}

func TestFlattenEmptyAndNilMapsAreLeaves(t *testing.T) {
	flat := Flatten(map[string]any{
		"empty":  map[string]any{},
		"nilval": nil,
		"plain":  "x",
	})
	require.Equal(t, map[string]any{
		"empty":  map[string]any{},
		"nilval": nil,
		"plain":  "x",
	}, flat)
}

func TestEnsureDate(t *testing.T) {
	parsed, err := EnsureDate("2008-03-14T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, 2008, parsed.Year())

	now := time.Now()
	passthrough, err := EnsureDate(now)
	require.NoError(t, err)
	require.Equal(t, now, passthrough)

	_, err = EnsureDate("14/03/2008")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = EnsureDate(12345)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestDayRangeInclusiveBounds(t *testing.T) {
	start, end, err := DayRange("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC), end)

	_, _, err = DayRange("2025-02-01", "2025-01-01")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, _, err = DayRange("01-01-2025", "2025-01-31")
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

type sample struct {
	Name  string `bson:"name"`
	Count int    `bson:"count"`
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestDecodeRoundTrip(t *testing.T) {
	var got sample
	require.NoError(t, Decode(bson.M{"name": "alpha", "count": 3}, &got))
	require.Equal(t, sample{Name: "alpha", Count: 3}, got)

	// serialization idempotence: decoding the dumped form reproduces the model
	raw, err := bson.Marshal(got)
	require.NoError(t, err)
	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	var again sample
	require.NoError(t, Decode(doc, &again))
	require.Equal(t, got, again)
}

func TestDecodeRejectsEmptyDocument(t *testing.T) {
	var got sample
	err := Decode(bson.M{}, &got)
	require.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestDecodeListRaiseOnInvalid(t *testing.T) {
	conv := NewConverter(RaiseOnInvalid, testLogger())
	docs := []bson.M{
		{"name": "first", "count": 1},
		{},
		{"name": "third", "count": 3},
	}
	models, err := DecodeList[sample](conv, docs)
	require.Error(t, err)
	require.Nil(t, models)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDecodeListSkipStrategies(t *testing.T) {
	for _, strategy := range []Strategy{LogAndSkip, SkipInvalid} {
		conv := NewConverter(strategy, testLogger())
		docs := []bson.M{
			{"name": "first", "count": 1},
			{},
			{"name": "third", "count": 3},
		}
		models, err := DecodeList[sample](conv, docs)
		require.NoError(t, err)
		require.Len(t, models, 2)
		require.Equal(t, "first", models[0].Name)
		require.Equal(t, "third", models[1].Name)
	}
}
