package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

func givenStorableEvents(t *testing.T, count int) eventstore.StorableEvents {
	t.Helper()

	events := make(eventstore.StorableEvents, 0, count)
	for i := range count {
		event, err := StorableEventFrom(
			core.BuildCarParked(uuid.NewString(), i, 1, time.Now()),
			BuildEventMetadata(uuid.New(), "", xid.New()),
		)
		require.NoError(t, err)

		events = append(events, event)
	}

	return events
}

func Test_FanoutSink_WritesToAllSinksAndJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockSink(ctrl)
	second := NewMockSink(ctrl)
	events := givenStorableEvents(t, 2)
	broken := errors.New("broken")

	first.EXPECT().Write(gomock.Any(), events).Return(broken)
	second.EXPECT().Write(gomock.Any(), events).Return(nil)
	first.EXPECT().Close().Return(nil)
	second.EXPECT().Close().Return(broken)

	fanout := FanoutSink{first, second}

	assert.ErrorIs(t, fanout.Write(context.Background(), events), broken)
	assert.ErrorIs(t, fanout.Close(), broken)
}

type appendSpy struct {
	calls  int
	events eventstore.StorableEvents
}

func (s *appendSpy) Append(_ context.Context, event eventstore.StorableEvent, more ...eventstore.StorableEvent) error {
	s.calls++
	s.events = append(append(s.events, event), more...)

	return nil
}

func Test_JournalSink_AppendsTheBatchInOneCall(t *testing.T) {
	spy := new(appendSpy)
	sink := NewJournalSink(spy)

	require.NoError(t, sink.Write(context.Background(), nil))
	require.NoError(t, sink.Write(context.Background(), givenStorableEvents(t, 3)))

	assert.Equal(t, 1, spy.calls)
	assert.Len(t, spy.events, 3)
}
