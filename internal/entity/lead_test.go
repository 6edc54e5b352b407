package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLeadDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	lead := NewLead(map[string]any{
		"firstName":   "Dana",
		"phone":       "555-0101",
		"notes":       42,
		"quoteAmount": "",
		"submittedAt": "2026-03-14T09:29:58.000Z",
		"status":      "won", // form may not pick its own status
	}, now)

	assert.Equal(t, StatusNew, lead.Status)
	assert.Equal(t, "2026-03-14T09:30:00Z", lead.StatusUpdatedAt)
	assert.Empty(t, lead.ClosedAt)
	assert.Equal(t, "42", lead.Notes, "notes are coerced to string")
	assert.Nil(t, lead.QuoteAmount, "empty amount normalizes to absent")
	assert.Equal(t, "2026-03-14T09:29:58.000Z", lead.SubmittedAt)
	assert.Equal(t, "Dana", lead.Extra["firstName"])
	assert.Equal(t, "555-0101", lead.Extra["phone"])
	assert.NotContains(t, lead.Extra, "status")
	assert.Empty(t, lead.Photos)
	assert.Empty(t, lead.PhotoData)
	assert.False(t, lead.HasPhotos)
}

func TestApplyStatusTerminalSetsClosedAt(t *testing.T) {
	lead := NewLead(nil, time.Now())

	lead.ApplyStatus(StatusWon, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, StatusWon, lead.Status)
	assert.Equal(t, "2026-04-01T12:00:00Z", lead.ClosedAt)
	assert.Equal(t, "2026-04-01T12:00:00Z", lead.StatusUpdatedAt)
}

func TestApplyStatusIdempotentClose(t *testing.T) {
	lead := NewLead(nil, time.Now())

	lead.ApplyStatus(StatusWon, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	first := lead.ClosedAt

	// Closing again later must not move closedAt, but does refresh
	// statusUpdatedAt.
	lead.ApplyStatus(StatusWon, time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, first, lead.ClosedAt)
	assert.Equal(t, "2026-04-02T08:00:00Z", lead.StatusUpdatedAt)
}

func TestApplyStatusReopenClearsClosedAt(t *testing.T) {
	lead := NewLead(nil, time.Now())

	lead.ApplyStatus(StatusLost, time.Now())
	require.NotEmpty(t, lead.ClosedAt)

	lead.ApplyStatus("contacted", time.Now())
	assert.Empty(t, lead.ClosedAt, "closedAt records currently closed, not ever closed")
}

func TestApplyStatusNonTerminalLeavesClosedAtEmpty(t *testing.T) {
	lead := NewLead(nil, time.Now())

	lead.ApplyStatus("contacted", time.Now())
	assert.Empty(t, lead.ClosedAt)

	lead.ApplyStatus("quoted", time.Now())
	assert.Empty(t, lead.ClosedAt)
}

func TestAppendPhotosGrowsOnly(t *testing.T) {
	lead := NewLead(nil, time.Now())

	lead.AppendPhotos([]string{"http://a"}, nil)
	lead.AppendPhotos([]string{"http://b"}, []PhotoData{{Name: "roof.jpg", Data: "aGk=", Size: 2}})
	lead.AppendPhotos(nil, nil)

	assert.Equal(t, []string{"http://a", "http://b"}, lead.Photos)
	assert.Len(t, lead.PhotoData, 1)
	assert.True(t, lead.HasPhotos)
}

func TestAppendPhotosDuplicatesBatches(t *testing.T) {
	lead := NewLead(nil, time.Now())

	lead.AppendPhotos([]string{"http://a"}, nil)
	lead.AppendPhotos([]string{"http://a"}, nil)

	assert.Equal(t, []string{"http://a", "http://a"}, lead.Photos, "re-submitted batches are not deduplicated")
}

func TestLeadJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	lead := NewLead(map[string]any{
		"firstName":   "Dana",
		"projectType": "full house",
		"quoteAmount": "1250.75",
		"submittedAt": "marker-1",
	}, now)
	lead.ID = 1765000000000
	lead.ApplyStatus(StatusWon, now)
	lead.AppendPhotos([]string{"http://a"}, []PhotoData{{Name: "wall.jpg", Data: "aGk=", Size: 2}})

	data, err := json.Marshal(lead)
	require.NoError(t, err)

	var decoded Lead
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, lead.ID, decoded.ID)
	assert.Equal(t, lead.Status, decoded.Status)
	assert.Equal(t, lead.StatusUpdatedAt, decoded.StatusUpdatedAt)
	assert.Equal(t, lead.ClosedAt, decoded.ClosedAt)
	assert.Equal(t, lead.SubmittedAt, decoded.SubmittedAt)
	assert.Equal(t, lead.Photos, decoded.Photos)
	assert.Equal(t, lead.PhotoData, decoded.PhotoData)
	assert.True(t, decoded.HasPhotos)
	assert.Equal(t, "Dana", decoded.Extra["firstName"])
	assert.Equal(t, "full house", decoded.Extra["projectType"])
	require.NotNil(t, decoded.QuoteAmount)
	assert.True(t, lead.QuoteAmount.Equal(*decoded.QuoteAmount))

	// Second round trip is byte-stable.
	again, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}
