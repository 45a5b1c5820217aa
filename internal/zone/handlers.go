package zone

import (
	"github.com/trunkradio/radiosim/internal/metrics"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
	"github.com/trunkradio/radiosim/internal/units"
)

func (c *Controller) handleUnitPowerOnCommand(cmd signaling.UnitPowerOnCommand) {
	u, ok := c.zone.Units[cmd.UnitID]
	if !ok {
		c.log.Warn().Int("unit_id", cmd.UnitID).Msg("power-on: unknown unit")
		return
	}
	if u.Location == nil {
		if area := c.placementArea(u); area != nil {
			loc := randomPointInArea(area, c.place)
			u.Location = &loc
		}
	}
	if !u.HasSelectedTalkgroup {
		if tgID, found := c.firstTalkgroupID(); found {
			u.SelectedTalkgroupID = tgID
			u.HasSelectedTalkgroup = true
		}
	}
	units.PowerOn(u)
	c.clock.Publish(signaling.NewUnitScanForSitesCommand(u.ID))
}

func (c *Controller) handleUnitUpdateLocationCommand(cmd signaling.UnitUpdateLocationCommand) {
	u, ok := c.zone.Units[cmd.UnitID]
	if !ok {
		c.log.Warn().Int("unit_id", cmd.UnitID).Msg("update-location: unknown unit")
		return
	}
	loc := cmd.NewLocation
	u.Location = &loc
	c.clock.Publish(signaling.NewUnitScanForSitesCommand(u.ID))
}

func (c *Controller) handleUnitScanForSitesCommand(cmd signaling.UnitScanForSitesCommand) {
	u, ok := c.zone.Units[cmd.UnitID]
	if !ok {
		c.log.Warn().Int("unit_id", cmd.UnitID).Msg("scan: unknown unit")
		return
	}
	cand, found := c.scanner.Scan(u, c.wacn)
	if !found {
		return
	}
	if u.State != model.UnitSearchingForSite {
		u.State = model.UnitFailed
		return
	}
	u.CurrentSiteID = cand.SiteID
	u.HasCurrentSite = true
	req := signaling.NewUnitRegistrationRequest(u.ID, cand.SiteID)
	c.clock.Schedule(0.1, req)
}

const registrationCapacity = 1000

func (c *Controller) handleUnitRegistrationRequest(req signaling.UnitRegistrationRequest) {
	site, ok := c.zone.Sites[req.SiteID]
	if !ok {
		c.log.Warn().Int("site_id", req.SiteID).Msg("registration request: unknown site")
		return
	}
	var status signaling.RegistrationStatus
	if len(site.Registrations) < registrationCapacity {
		status = signaling.RegAccept
		site.AddRegistration(req.UnitID)
	} else {
		status = signaling.RegFailSystemFull
	}
	resp := signaling.NewUnitRegistrationResponse(req.UnitID, req.SiteID, c.zone.ID, status)
	c.clock.Schedule(0.1, resp)
}

// registrationBanSeconds is the default ban duration once a unit is denied
// registration on a site (spec §5).
const registrationBanSeconds = 30.0

func (c *Controller) handleUnitRegistrationResponse(resp signaling.UnitRegistrationResponse) {
	u, ok := c.zone.Units[resp.UnitID]
	if !ok {
		c.log.Warn().Int("unit_id", resp.UnitID).Msg("registration response: unknown unit")
		return
	}
	var tg *model.Talkgroup
	if u.HasSelectedTalkgroup {
		tg = c.zone.Talkgroups[u.SelectedTalkgroupID]
	}
	next := units.HandleRegistrationResponse(u, resp, tg)
	if resp.Status != signaling.RegAccept && resp.Status != signaling.RegRefused {
		c.clock.Schedule(registrationBanSeconds, signaling.NewUnitUnbanFromSiteCommand(resp.ZoneID, resp.UnitID, resp.SiteID))
	}
	if next != nil {
		c.clock.Schedule(0.1, *next)
	}
	if u.State == model.UnitSearchingForSite {
		c.clock.Publish(signaling.NewUnitScanForSitesCommand(u.ID))
	}
}

func (c *Controller) handleGroupAffiliationRequest(req signaling.GroupAffiliationRequest) {
	u, ok := c.zone.Units[req.UnitID]
	if !ok {
		c.log.Warn().Int("unit_id", req.UnitID).Msg("affiliation request: unknown unit")
		return
	}
	tg, ok := c.zone.Talkgroups[req.TalkgroupID]
	var status signaling.AffiliationStatus
	switch {
	case !ok:
		status = signaling.AffRefused
	case tg.Mode == model.ModeTDMA && !u.TDMACapable:
		status = signaling.AffFailed
	case len(tg.ValidSites) > 0 && (!u.HasCurrentSite || !tg.ValidOnSite(u.CurrentSiteID)):
		status = signaling.AffDenied
	default:
		status = signaling.AffAccepted
	}
	resp := signaling.NewGroupAffiliationResponse(req.UnitID, req.TalkgroupID, c.zone.ID, status)
	c.clock.Schedule(0.1, resp)
}

func (c *Controller) handleGroupAffiliationResponse(resp signaling.GroupAffiliationResponse) {
	u, ok := c.zone.Units[resp.UnitID]
	if !ok {
		c.log.Warn().Int("unit_id", resp.UnitID).Msg("affiliation response: unknown unit")
		return
	}
	units.HandleAffiliationResponse(u, resp)
	if u.State == model.UnitSearchingForSite {
		c.clock.Publish(signaling.NewUnitScanForSitesCommand(u.ID))
	}
}

func (c *Controller) handleUnitInitiateCallCommand(cmd signaling.UnitInitiateCallCommand) {
	u, ok := c.zone.Units[cmd.UnitID]
	if !ok || u.State != model.UnitIdleAffiliated {
		return
	}
	tg, ok := c.zone.Talkgroups[cmd.TalkgroupID]
	if !ok {
		return
	}
	priority := tg.Priority
	if tg.Priority == model.PriorityNormal {
		for _, gid := range u.GroupIDs {
			if g, ok := c.zone.Groups[gid]; ok && g.Priority != model.PriorityNormal {
				priority = g.Priority
				break
			}
		}
	}
	if u.IsConsole {
		priority = model.PriorityPreempt
	}
	c.clock.Publish(signaling.NewGroupVoiceServiceRequest(cmd.UnitID, cmd.TalkgroupID, priority))
}

func (c *Controller) handleGroupVoiceServiceRequest(req signaling.GroupVoiceServiceRequest) {
	c.setupCall(req.UnitID, req.TalkgroupID, req.Priority())
}

func (c *Controller) handleGroupVoiceChannelGrant(grant signaling.GroupVoiceChannelGrant) {
	u, ok := c.zone.Units[grant.UnitID]
	if !ok {
		return
	}
	units.HandleVoiceChannelGrant(u)
}

func (c *Controller) handleUnitEndTransmissionCommand(cmd signaling.UnitEndTransmissionCommand) {
	call, ok := c.activeCalls[cmd.CallID]
	if !ok || call.Status != model.CallActive {
		return
	}
	// Clear any stale restart flag from a re-key that happened before this
	// teardown was scheduled — only a re-key during the hangtime window
	// below should cancel it.
	call.TransmissionRestarted = false
	tg := c.zone.Talkgroups[call.TalkgroupID]
	teardown := signaling.NewCallTeardownCommand(call.ID, model.PriorityDefault)
	if tg != nil && tg.PTTID && tg.HangtimeMs > 0 {
		c.clock.Schedule(float64(tg.HangtimeMs)/1000.0, teardown)
	} else {
		c.clock.Publish(teardown)
	}
}

func (c *Controller) handleCallTeardownCommand(cmd signaling.CallTeardownCommand) {
	call, ok := c.activeCalls[cmd.CallID]
	if !ok || call.Status != model.CallActive {
		return
	}
	if call.TransmissionRestarted {
		call.TransmissionRestarted = false
		return
	}
	call.Status = model.CallEnded
	metrics.CallsTornDownTotal.WithLabelValues(c.zoneIDLabel()).Inc()
	for siteID, key := range call.AssignedChannelsBySite {
		if site, ok := c.zone.Sites[siteID]; ok {
			c.allocator.Release(site, key)
		}
	}
	delete(c.activeCalls, call.ID)
	for _, u := range c.zone.Units {
		if u.HasCurrentCall && u.CurrentCallID == call.ID {
			u.HasCurrentCall = false
			u.State = model.UnitIdleAffiliated
		}
	}
	c.serviceBlockedQueue()
}

func (c *Controller) handleConsoleInitiateCallCommand(cmd signaling.ConsoleInitiateCallCommand) {
	for _, call := range c.activeCalls {
		if call.TalkgroupID == cmd.TalkgroupID && call.Status == model.CallActive {
			call.InitiatingUnitID = cmd.ConsoleID
			call.TransmissionRestarted = true
			if u, ok := c.zone.Units[cmd.ConsoleID]; ok {
				u.CurrentCallID = call.ID
				u.HasCurrentCall = true
				u.State = model.UnitInCall
			}
			return
		}
	}
	c.setupCall(cmd.ConsoleID, cmd.TalkgroupID, model.PriorityPreempt)
}

func (c *Controller) handleUnitUnbanFromSiteCommand(cmd signaling.UnitUnbanFromSiteCommand) {
	u, ok := c.zone.Units[cmd.UnitID]
	if !ok {
		return
	}
	units.Unban(u, cmd.ZoneID, cmd.SiteID)
}
