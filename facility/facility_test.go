package facility

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
	"github.com/AntonStoeckl/casino-floor-simulation/testutil/testdoubles"
)

//nolint:funlen
func Test_Facility_Run_KeepsInvariantsUnderLoad(t *testing.T) {
	spy := testdoubles.NewRecorderSpy()
	metrics := testdoubles.NewMetricsCollectorSpy()
	logs := testdoubles.NewLogHandlerSpy(false)

	f, err := New(testLayout(),
		WithRecorder(spy),
		WithMetrics(metrics),
		WithLogger(slog.New(logs)),
		WithRandom(NewSeededRandom(42)),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	audits := 0
	for running := true; running; {
		select {
		case err := <-done:
			require.NoError(t, err)
			running = false
		case <-time.After(3 * time.Millisecond):
			require.NoError(t, f.Audit())
			audits++

			s := f.ReportMetrics(context.Background())
			for _, r := range s.Restaurants {
				assert.LessOrEqual(t, r.Seated, r.Capacity)
			}
			assert.GreaterOrEqual(t, s.ParkingFree, 0)
			assert.GreaterOrEqual(t, s.RoomsFree, 0)
		}
	}

	assert.Positive(t, audits)
	require.NoError(t, f.Audit())

	s := f.Snapshot()
	assert.Zero(t, s.Lobby)
	assert.Zero(t, s.Active)
	assert.Equal(t, s.Admitted, s.Departed)
	assert.GreaterOrEqual(t, s.Admitted, int64(20))
	assert.Equal(t, s.ParkingCapacity, s.ParkingFree)
	assert.Equal(t, s.RoomsCapacity, s.RoomsFree)
	for _, table := range s.Tables {
		assert.Zero(t, table.Waiting, table.Name)
		assert.Zero(t, table.Playing, table.Name)
	}

	registered := spy.CountOfType(core.CustomerRegisteredEventType)
	ended := spy.CountOfType(core.CustomerDepartedEventType) +
		spy.CountOfType(core.CarUnparkedEventType) +
		spy.CountOfType(core.ParkingCarFailedEventType)

	assert.Equal(t, int(s.Admitted), registered)
	assert.Equal(t, registered, ended, "every customer's stay ends exactly once")

	for _, e := range spy.OfType(core.CustomerDepartedEventType) {
		assert.GreaterOrEqual(t, e.(core.CustomerDeparted).FinalBalance, int64(0))
	}
	for _, e := range spy.OfType(core.CarUnparkedEventType) {
		assert.GreaterOrEqual(t, e.(core.CarUnparked).FinalBalance, int64(0))
	}

	assert.True(t, logs.HasLog(slog.LevelInfo, logMsgFacilityOpened))
	assert.True(t, logs.HasLog(slog.LevelInfo, logMsgFacilityClosed))
	assert.Positive(t, metrics.CountCounter(metricDepartures, nil))
	_, ok := metrics.LastValue(metricLobbySize, nil)
	assert.True(t, ok)
}

func Test_Facility_Admit_DepartsWhenOutOfMoney(t *testing.T) {
	spy := testdoubles.NewRecorderSpy()
	f, err := New(testLayout(), WithRecorder(spy))
	require.NoError(t, err)

	profile := &Profile{Name: "broke"}
	a := f.Admit(context.Background(), profile, 0, false)
	f.agents.Wait()

	assert.Equal(t, Departed, a.Location())

	events := spy.ForCustomer(a.ID().String())
	require.Len(t, events, 3)
	assert.Equal(t, core.CustomerRegisteredEventType, events[0].IsEventType())
	assert.Equal(t, core.CustomerArrivedEventType, events[1].IsEventType())

	departed, ok := events[2].(core.CustomerDeparted)
	require.True(t, ok)
	assert.Equal(t, core.DepartureOutOfMoney, departed.Reason)
}

func Test_Facility_Admit_ParkingFailureIsTerminal(t *testing.T) {
	spy := testdoubles.NewRecorderSpy()
	layout := testLayout()
	layout.Parking.Slots = 1

	f, err := New(layout, WithRecorder(spy))
	require.NoError(t, err)

	_, ok := f.Parking().Slots().Acquire(NewAgent(testProfile(), Dollars(1)))
	require.True(t, ok)

	a := f.Admit(context.Background(), testProfile(), Dollars(100), true)
	f.agents.Wait()

	assert.Equal(t, Departed, a.Location())
	assert.Zero(t, f.Registry().LobbySize())
	assert.Zero(t, f.Parking().Slots().Available())

	failed := spy.OfType(core.ParkingCarFailedEventType)
	require.Len(t, failed, 1)
	assert.Equal(t, 3, failed[0].(core.ParkingCarFailed).Attempts)
	assert.Zero(t, spy.CountOfType(core.CarParkedEventType))
}

func Test_Facility_Admit_LeavesAtClosing(t *testing.T) {
	spy := testdoubles.NewRecorderSpy()
	f, err := New(testLayout(), WithRecorder(spy))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a := f.Admit(ctx, &Profile{Name: "idler"}, Dollars(100), true)

	require.Eventually(t, func() bool { return a.Location() == Lobby }, 2*time.Second, time.Millisecond)
	cancel()
	f.agents.Wait()

	unparked := spy.OfType(core.CarUnparkedEventType)
	require.Len(t, unparked, 1)
	assert.Equal(t, core.DepartureClosing, unparked[0].(core.CarUnparked).Reason)
	assert.Equal(t, Dollars(100).Cents(), unparked[0].(core.CarUnparked).FinalBalance)
	assert.Equal(t, f.Parking().Slots().Capacity(), f.Parking().Slots().Available())
}
