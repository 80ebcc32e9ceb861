package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/casino-floor-simulation/config"
	"github.com/AntonStoeckl/casino-floor-simulation/core"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/shell"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()

	return out.String(), err
}

func Test_ValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, config.DefaultYAML(), 0o600))

	out, err := execute(t, "validate", path)

	require.NoError(t, err)
	assert.Contains(t, out, "5 games with 43 dealers, 3 bars, 2 restaurants, 14 profiles")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(strings.Replace(string(config.DefaultYAML()), "rooms: 10", "rooms: 0", 1)), 0o600))

	_, err = execute(t, "validate", broken)
	assert.ErrorIs(t, err, config.ErrLayoutSchema)
}

func Test_EventQuery_AppliesToArchivedEvents(t *testing.T) {
	alice, bob := uuid.NewString(), uuid.NewString()
	runID := xid.New()
	now := time.Now()

	var events eventstore.StorableEvents
	for _, e := range []core.DomainEvent{
		core.BuildCustomerArrived(alice, now.Add(-time.Hour)),
		core.BuildCustomerArrived(bob, now),
		core.BuildGamePlayed(alice, "Craps", 1, 500, true, 1000, now),
		core.BuildCustomerDeparted(alice, core.DepartureLeft, 1500, now.Add(-time.Hour), now),
	} {
		storable, err := shell.StorableEventFrom(e, shell.BuildEventMetadata(uuid.New(), e.HasCustomerID(), runID))
		require.NoError(t, err)
		events = append(events, storable)
	}

	tests := []struct {
		name  string
		query eventQuery
		want  []string
	}{
		{
			name:  "by customer",
			query: eventQuery{customer: alice},
			want:  []string{core.CustomerArrivedEventType, core.GamePlayedEventType, core.CustomerDepartedEventType},
		},
		{
			name:  "by type and customer",
			query: eventQuery{customer: alice, types: []string{core.GamePlayedEventType}},
			want:  []string{core.GamePlayedEventType},
		},
		{
			name:  "since",
			query: eventQuery{since: now.Add(-time.Minute), limit: 2},
			want:  []string{core.CustomerArrivedEventType, core.GamePlayedEventType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, 0)
			for _, e := range tt.query.apply(events) {
				got = append(got, e.EventType)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_PrintEvents(t *testing.T) {
	storable, err := shell.StorableEventFrom(core.BuildCarParked(uuid.NewString(), 4, 2, time.Now()), shell.EventMetadata{})
	require.NoError(t, err)

	out := new(bytes.Buffer)
	require.NoError(t, printEvents(out, eventstore.StorableEvents{storable}, false))
	assert.Contains(t, out.String(), core.CarParkedEventType)
	assert.Contains(t, out.String(), "Slot:4")

	out.Reset()
	require.NoError(t, printEvents(out, eventstore.StorableEvents{storable}, true))
	assert.Contains(t, out.String(), `"event_type":"CarParked"`)
}
