package alloc

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunkradio/radiosim/internal/model"
)

type fixedRand struct{ n int }

func (f fixedRand) IntN(int) int { return f.n }

func newTestSite(t *testing.T, mode model.AssignmentMode, channels ...*model.Channel) *model.Site {
	t.Helper()
	subsites := []model.Subsite{{ID: 1, Alias: "main", OperatingRadiusKm: 10}}
	site, err := model.NewSite(1, 1, "test", mode, subsites)
	require.NoError(t, err)
	for _, c := range channels {
		site.Channels[c.ID] = c
	}
	return site
}

func TestAllocate(t *testing.T) {
	t.Run("fdma grants a wholly idle channel", func(t *testing.T) {
		site := newTestSite(t, model.AssignRotating,
			&model.Channel{ID: 1, Enabled: true, FDMA: true},
			&model.Channel{ID: 2, Enabled: true, FDMA: true},
		)
		a := New(fixedRand{}, nil, zerolog.Nop())

		key, ok := a.Allocate(site, 100, model.ModeFDMA)
		require.True(t, ok)
		assert.Equal(t, 1, key.ChannelID)
		assert.Equal(t, model.SlotNone, key.Slot)
	})

	t.Run("control channels are never assigned voice calls", func(t *testing.T) {
		site := newTestSite(t, model.AssignRotating,
			&model.Channel{ID: 1, Enabled: true, FDMA: true, Control: true},
			&model.Channel{ID: 2, Enabled: true, FDMA: true},
		)
		a := New(fixedRand{}, nil, zerolog.Nop())

		key, ok := a.Allocate(site, 100, model.ModeFDMA)
		require.True(t, ok)
		assert.Equal(t, 2, key.ChannelID)
	})

	t.Run("tdma shares an already-carrying channel before using a fresh one", func(t *testing.T) {
		site := newTestSite(t, model.AssignRotating,
			&model.Channel{ID: 1, Enabled: true, TDMA: true},
			&model.Channel{ID: 2, Enabled: true, TDMA: true},
		)
		a := New(fixedRand{}, nil, zerolog.Nop())

		first, ok := a.Allocate(site, 100, model.ModeTDMA)
		require.True(t, ok)
		assert.Equal(t, model.VoiceChannelKey{ChannelID: 1, Slot: model.Slot1}, first)

		second, ok := a.Allocate(site, 101, model.ModeTDMA)
		require.True(t, ok)
		assert.Equal(t, model.VoiceChannelKey{ChannelID: 1, Slot: model.Slot2}, second)

		third, ok := a.Allocate(site, 102, model.ModeTDMA)
		require.True(t, ok)
		assert.Equal(t, 2, third.ChannelID)
	})

	t.Run("allocation fails with no preemption policy once channels are exhausted", func(t *testing.T) {
		site := newTestSite(t, model.AssignRotating, &model.Channel{ID: 1, Enabled: true, FDMA: true})
		a := New(fixedRand{}, nil, zerolog.Nop())

		_, ok := a.Allocate(site, 100, model.ModeFDMA)
		require.True(t, ok)

		_, ok = a.Allocate(site, 101, model.ModeFDMA)
		assert.False(t, ok)
	})

	t.Run("random assignment strategy uses the injected index", func(t *testing.T) {
		site := newTestSite(t, model.AssignRandom,
			&model.Channel{ID: 1, Enabled: true, FDMA: true},
			&model.Channel{ID: 2, Enabled: true, FDMA: true},
			&model.Channel{ID: 3, Enabled: true, FDMA: true},
		)
		a := New(fixedRand{n: 2}, nil, zerolog.Nop())

		key, ok := a.Allocate(site, 100, model.ModeFDMA)
		require.True(t, ok)
		assert.Equal(t, 3, key.ChannelID)
	})
}

func TestRelease(t *testing.T) {
	site := newTestSite(t, model.AssignRotating, &model.Channel{ID: 1, Enabled: true, FDMA: true})
	a := New(fixedRand{}, nil, zerolog.Nop())

	key, ok := a.Allocate(site, 100, model.ModeFDMA)
	require.True(t, ok)

	a.Release(site, key)
	assert.Empty(t, site.AssignedVoiceChannels)

	a.Release(site, key) // idempotent, logged no-op
	assert.Empty(t, site.AssignedVoiceChannels)
}

type alwaysPreempt struct{ key model.VoiceChannelKey }

func (p alwaysPreempt) Preempt(*model.Site, model.CallMode) (model.VoiceChannelKey, bool) {
	return p.key, true
}

func TestPreemptionPolicy(t *testing.T) {
	site := newTestSite(t, model.AssignRotating, &model.Channel{ID: 1, Enabled: true, FDMA: true})
	a := New(fixedRand{}, nil, zerolog.Nop())

	_, ok := a.Allocate(site, 100, model.ModeFDMA)
	require.True(t, ok)

	preempting := New(fixedRand{}, alwaysPreempt{key: model.VoiceChannelKey{ChannelID: 1}}, zerolog.Nop())
	key, ok := preempting.Allocate(site, 101, model.ModeFDMA)
	require.True(t, ok)
	assert.Equal(t, 1, key.ChannelID)
}
