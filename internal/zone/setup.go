package zone

import (
	"github.com/trunkradio/radiosim/internal/metrics"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
)

// setupCall starts the grant-or-queue protocol for a fresh voice request.
// If talkgroup already has an Active call, this is treated as a re-key: the
// existing call's initiator is updated and its TransmissionRestarted flag
// is set so a pending teardown cancels instead of releasing channels out
// from under the new transmission (spec §8 Scenario E).
func (c *Controller) setupCall(initiatorID, talkgroupID int, priority model.EventPriority) {
	for _, call := range c.activeCalls {
		if call.TalkgroupID == talkgroupID && call.Status == model.CallActive {
			call.InitiatingUnitID = initiatorID
			call.TransmissionRestarted = true
			if u, ok := c.zone.Units[initiatorID]; ok {
				u.CurrentCallID = call.ID
				u.HasCurrentCall = true
				u.State = model.UnitInCall
			}
			return
		}
	}

	callID := c.nextCallID
	c.nextCallID++
	call := model.NewRadioCall(callID, initiatorID, talkgroupID, model.ModeMixed)
	c.activeCalls[callID] = call
	if u, ok := c.zone.Units[initiatorID]; ok {
		u.CurrentCallID = callID
		u.HasCurrentCall = true
		u.State = model.UnitCallRequested
	}
	c.trySetup(call, priority)
}

// requiredSitesFor returns every Online site in the zone with at least one
// registered unit affiliated to talkgroupID, and whether every such unit is
// tdma_capable (used to resolve a MIXED-mode talkgroup's final call mode).
func (c *Controller) requiredSitesFor(talkgroupID int) ([]*model.Site, bool) {
	var sites []*model.Site
	allCapable := true
	for _, site := range c.zone.Sites {
		if site.Status != model.SiteOnline {
			continue
		}
		affiliated := false
		for _, uid := range site.Registrations {
			u, ok := c.zone.Units[uid]
			if !ok || !u.HasAffiliatedTalkgroup || u.AffiliatedTalkgroupID != talkgroupID {
				continue
			}
			affiliated = true
			if !u.TDMACapable {
				allCapable = false
			}
		}
		if affiliated {
			sites = append(sites, site)
		}
	}
	return sites, allCapable
}

type siteGrant struct {
	site *model.Site
	key  model.VoiceChannelKey
}

// trySetup attempts to allocate call's required sites, granting on success
// or queueing on failure. It is re-entrant: serviceBlockedQueue calls it
// again for the same call object once a channel frees up, per spec §4.7
// "Servicing blocked calls".
func (c *Controller) trySetup(call *model.RadioCall, priority model.EventPriority) {
	tg, ok := c.zone.Talkgroups[call.TalkgroupID]
	if !ok {
		delete(c.activeCalls, call.ID)
		return
	}

	sites, allCapable := c.requiredSitesFor(call.TalkgroupID)
	if len(sites) == 0 {
		delete(c.activeCalls, call.ID)
		return
	}

	mode := tg.Mode
	if mode == model.ModeMixed {
		if allCapable {
			mode = model.ModeTDMA
		} else {
			mode = model.ModeFDMA
		}
	}
	call.Mode = mode

	grants := make([]siteGrant, 0, len(sites))
	ok = true
	for _, site := range sites {
		key, success := c.allocator.Allocate(site, call.ID, mode)
		if !success {
			ok = false
			break
		}
		grants = append(grants, siteGrant{site: site, key: key})
	}

	if !ok {
		for _, g := range grants {
			c.allocator.Release(g.site, g.key)
		}
		call.Status = model.CallQueued
		call.QueuedAt = c.clock.Now()
		c.busyQueue.Push(priority, call.QueuedAt, call.ID, call.TalkgroupID)
		metrics.CallsQueuedTotal.WithLabelValues(c.zoneIDLabel()).Inc()
		c.clock.Publish(signaling.NewQueuedResponse(call.InitiatingUnitID, call.TalkgroupID))
		return
	}

	call.Status = model.CallActive
	metrics.CallsGrantedTotal.WithLabelValues(c.zoneIDLabel()).Inc()
	for _, g := range grants {
		call.AssignedChannelsBySite[g.site.ID] = g.key
		for _, uid := range g.site.Registrations {
			u, ok := c.zone.Units[uid]
			if !ok || !u.HasAffiliatedTalkgroup || u.AffiliatedTalkgroupID != call.TalkgroupID {
				continue
			}
			grant := signaling.NewGroupVoiceChannelGrant(u.ID, call.TalkgroupID, call.ID, g.key.ChannelID, g.key.Slot)
			c.clock.Schedule(0.05, grant)
		}
	}
}

// serviceBlockedQueue pops the head of the call_busy_queue, if any, and
// retries allocation for it. A retry that fails again re-queues at the back
// among equal-priority entries (trySetup stamps a fresh QueuedAt).
func (c *Controller) serviceBlockedQueue() {
	item, ok := c.busyQueue.Pop()
	if !ok {
		return
	}
	call, ok := c.activeCalls[item.callID]
	if !ok || call.Status != model.CallQueued {
		return
	}
	c.trySetup(call, item.priority)
}
