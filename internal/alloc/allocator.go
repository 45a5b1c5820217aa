// Package alloc implements the per-site voice channel allocator (spec §4.4):
// FDMA/TDMA slot accounting, the rotating/random/balanced assignment
// strategies, release, and an optional preemption hook.
package alloc

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/model"
)

// Rand is the minimal randomness surface the "random" assignment strategy
// needs, injected so tests are deterministic — the same pattern used by
// internal/rf for scan jitter.
type Rand interface {
	IntN(n int) int
}

// PreemptionPolicy evaluates whether an in-progress call on site can be
// displaced to free a voice channel for required. The spec defines this
// hook but treats a successful preemption as optional (§4.4 step 4, §9);
// NoPreemption is the default and always declines.
type PreemptionPolicy interface {
	Preempt(site *model.Site, requiredMode model.CallMode) (model.VoiceChannelKey, bool)
}

// NoPreemption never preempts; allocation simply fails when no idle channel
// exists.
type NoPreemption struct{}

func (NoPreemption) Preempt(*model.Site, model.CallMode) (model.VoiceChannelKey, bool) {
	return model.VoiceChannelKey{}, false
}

// Allocator assigns and releases VoiceChannel keys on a Site.
type Allocator struct {
	rand       Rand
	preemption PreemptionPolicy
	log        zerolog.Logger
}

// New constructs an Allocator. A nil policy installs NoPreemption.
func New(rand Rand, policy PreemptionPolicy, log zerolog.Logger) *Allocator {
	if policy == nil {
		policy = NoPreemption{}
	}
	return &Allocator{rand: rand, preemption: policy, log: log.With().Str("component", "alloc").Logger()}
}

func matchesMode(c *model.Channel, mode model.CallMode) bool {
	switch mode {
	case model.ModeFDMA:
		return c.FDMA
	case model.ModeTDMA:
		return c.TDMA
	default: // ModeMixed
		return c.FDMA || c.TDMA
	}
}

// channelTDMASlotsUsed reports which slots of channelID are occupied on
// site.
func channelTDMASlotsUsed(site *model.Site, channelID int) (slot1, slot2 bool) {
	_, slot1 = site.AssignedVoiceChannels[model.VoiceChannelKey{ChannelID: channelID, Slot: model.Slot1}]
	_, slot2 = site.AssignedVoiceChannels[model.VoiceChannelKey{ChannelID: channelID, Slot: model.Slot2}]
	return
}

// channelWhollyIdle reports that channelID carries no allocation at all —
// neither the FDMA key nor either TDMA slot.
func channelWhollyIdle(site *model.Site, channelID int) bool {
	if _, ok := site.AssignedVoiceChannels[model.VoiceChannelKey{ChannelID: channelID, Slot: model.SlotNone}]; ok {
		return false
	}
	s1, s2 := channelTDMASlotsUsed(site, channelID)
	return !s1 && !s2
}

// Allocate assigns a VoiceChannel key on site for callID, per the algorithm
// in spec §4.4. requiredMode must already be resolved to FDMA or TDMA by
// the caller (the MIXED-downgrade decision happens one level up, in the
// zone controller's call-setup protocol, before a RadioCall's mode is
// fixed) — MIXED is still accepted here for candidate filtering, in which
// case a freshly-idle channel's own capability decides the slot assigned.
func (a *Allocator) Allocate(site *model.Site, callID int, requiredMode model.CallMode) (model.VoiceChannelKey, bool) {
	var candidates []*model.Channel
	for _, c := range site.Channels {
		if c.Enabled && !c.Control && matchesMode(c, requiredMode) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return model.VoiceChannelKey{}, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	if requiredMode == model.ModeTDMA {
		for _, c := range candidates {
			s1, s2 := channelTDMASlotsUsed(site, c.ID)
			if !s1 && !s2 {
				continue // not yet carrying a TDMA call; not a sharing candidate
			}
			if !s1 {
				return a.assign(site, callID, model.VoiceChannelKey{ChannelID: c.ID, Slot: model.Slot1})
			}
			if !s2 {
				return a.assign(site, callID, model.VoiceChannelKey{ChannelID: c.ID, Slot: model.Slot2})
			}
		}
	}

	var idle []*model.Channel
	for _, c := range candidates {
		if channelWhollyIdle(site, c.ID) {
			idle = append(idle, c)
		}
	}
	if len(idle) > 0 {
		var chosen *model.Channel
		switch site.AssignmentMode {
		case model.AssignRotating:
			chosen = idle[0]
		case model.AssignRandom:
			chosen = idle[a.rand.IntN(len(idle))]
		case model.AssignBalanced:
			chosen = idle[len(idle)/2]
		default:
			chosen = idle[0]
		}
		slot := model.SlotNone
		switch requiredMode {
		case model.ModeTDMA:
			slot = model.Slot1
		case model.ModeMixed:
			if chosen.TDMA {
				slot = model.Slot1
			}
		}
		return a.assign(site, callID, model.VoiceChannelKey{ChannelID: chosen.ID, Slot: slot})
	}

	if key, ok := a.preemption.Preempt(site, requiredMode); ok {
		return a.assign(site, callID, key)
	}
	return model.VoiceChannelKey{}, false
}

func (a *Allocator) assign(site *model.Site, callID int, key model.VoiceChannelKey) (model.VoiceChannelKey, bool) {
	site.AssignedVoiceChannels[key] = callID
	return key, true
}

// Release removes key from site's assignment map. Releasing a key that
// isn't present is a logged no-op — matching the spec's idempotence
// requirement for double-release.
func (a *Allocator) Release(site *model.Site, key model.VoiceChannelKey) {
	if _, ok := site.AssignedVoiceChannels[key]; !ok {
		a.log.Warn().Int("site_id", site.ID).Int("channel_id", key.ChannelID).Str("slot", key.Slot.String()).
			Msg("release of unassigned voice channel ignored")
		return
	}
	delete(site.AssignedVoiceChannels, key)
}
