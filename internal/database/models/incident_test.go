package models

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentSentinel(t *testing.T) {
	assert.False(t, Unassigned.Assigned())
	assert.Equal(t, "unassigned", Unassigned.String())

	a := AssignedTo("5f7c2a10-0000-0000-0000-000000000001")
	assert.True(t, a.Assigned())
	assert.Equal(t, "5f7c2a10-0000-0000-0000-000000000001", a.String())
}

func TestAssignmentWireFormatKeepsSentinel(t *testing.T) {
	data, err := json.Marshal(Unassigned)
	require.NoError(t, err)
	assert.Equal(t, `"unassigned"`, string(data))

	var a Assignment
	require.NoError(t, json.Unmarshal([]byte(`"unassigned"`), &a))
	assert.False(t, a.Assigned())

	require.NoError(t, json.Unmarshal([]byte(`"some-admin-id"`), &a))
	assert.True(t, a.Assigned())
	assert.Equal(t, "some-admin-id", a.AdminID)
}

func TestAssignmentStorageRoundTrip(t *testing.T) {
	value, err := Unassigned.Value()
	require.NoError(t, err)
	assert.Equal(t, "unassigned", value)

	var scanned Assignment
	require.NoError(t, scanned.Scan("unassigned"))
	assert.False(t, scanned.Assigned())

	require.NoError(t, scanned.Scan("admin-123"))
	assert.Equal(t, "admin-123", scanned.AdminID)
}

func TestHistoryRoundTripPreservesTimestamps(t *testing.T) {
	// Timestamps are stored as opaque strings so a record written at
	// one moment reads back byte for byte identical
	history := History{
		{Action: "Creado", Timestamp: "2026-03-14T09:26:53.589Z", User: "Lucía Ramos"},
		{Action: "Asignado a Juan Pérez", Timestamp: "2026-03-14T10:00:00.000Z", User: "Juan Pérez"},
		{Action: "Actualizado", Timestamp: "2026-03-15T08:00:00.000Z", User: "Lucía Ramos", Changes: []string{"location"}},
	}

	stored, err := history.Value()
	require.NoError(t, err)

	var reloaded History
	require.NoError(t, reloaded.Scan(stored))

	require.Len(t, reloaded, 3)
	assert.Equal(t, history, reloaded)
	assert.Equal(t, "2026-03-14T09:26:53.589Z", reloaded[0].Timestamp)

	// And again through the JSON wire format
	wire, err := json.Marshal(reloaded)
	require.NoError(t, err)
	var again History
	require.NoError(t, json.Unmarshal(wire, &again))
	assert.Equal(t, history, again)
}

func TestHistoryOmitsEmptyChanges(t *testing.T) {
	wire, err := json.Marshal(HistoryEntry{Action: "Creado", Timestamp: "2026-01-01T00:00:00Z", User: "X"})
	require.NoError(t, err)
	assert.NotContains(t, string(wire), "changes")
}

func TestNewTrackingCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^INC-2026-\d{4}$`)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		code := NewTrackingCode(now)
		assert.Regexp(t, pattern, code)
	}
}

func TestAppendHistoryGrowsByOne(t *testing.T) {
	incident := Incident{History: History{{Action: "Creado", Timestamp: "2026-01-01T00:00:00Z", User: "X"}}}
	incident.AppendHistory(HistoryEntry{Action: "Actualizado", Timestamp: "2026-01-02T00:00:00Z", User: "X"})

	require.Len(t, incident.History, 2)
	assert.Equal(t, "Creado", incident.History[0].Action)
	assert.Equal(t, "Actualizado", incident.History[1].Action)
}

func TestIncidentJSONUsesCamelCase(t *testing.T) {
	incident := Incident{TrackingCode: "INC-2026-0001", AssignedTo: Unassigned}
	wire, err := json.Marshal(incident)
	require.NoError(t, err)

	assert.Contains(t, string(wire), `"trackingCode"`)
	assert.Contains(t, string(wire), `"assignedTo":"unassigned"`)
	assert.NotContains(t, string(wire), "tracking_code")
}
