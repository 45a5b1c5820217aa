// Package units implements the Unit lifecycle state machine (spec §4.3) as
// pure transition functions: given a *model.Unit and an inbound message,
// mutate the unit's state fields and return whatever outbound message (if
// any) the transition produces. None of these functions schedule events or
// touch the clock — that sequencing belongs to internal/zone.
package units

import "github.com/trunkradio/radiosim/internal/model"
import "github.com/trunkradio/radiosim/internal/signaling"

// PowerOn runs the unit's power-on sequence (POWERED_OFF -> SEARCHING_FOR_SITE,
// clearing transient fields). No-op unless the unit is currently powered off.
func PowerOn(u *model.Unit) {
	u.PowerOn()
}

// HandleRegistrationResponse applies a UnitRegistrationResponse to the unit
// and returns the affiliation request to send next, if registration
// succeeded and the unit already has a selected talkgroup.
func HandleRegistrationResponse(u *model.Unit, resp signaling.UnitRegistrationResponse, tg *model.Talkgroup) *signaling.GroupAffiliationRequest {
	switch resp.Status {
	case signaling.RegAccept:
		u.State = model.UnitIdleRegistered
		u.CurrentSiteID = resp.SiteID
		u.HasCurrentSite = true
		if u.HasSelectedTalkgroup && tg != nil {
			return AffiliateToTalkgroup(u, tg)
		}
		return nil
	case signaling.RegRefused:
		u.State = model.UnitFailed
		return nil
	default: // RegDeny, RegFail, RegFailSystemFull
		u.State = model.UnitSearchingForSite
		u.BannedSites[model.SiteBanKey{ZoneID: resp.ZoneID, SiteID: resp.SiteID}] = struct{}{}
		return nil
	}
}

// AffiliateToTalkgroup checks bans and attempt counts, then emits a
// GroupAffiliationRequest — or returns nil and drops the unit back to
// IDLE_REGISTERED if the talkgroup is banned or attempts are exhausted.
func AffiliateToTalkgroup(u *model.Unit, tg *model.Talkgroup) *signaling.GroupAffiliationRequest {
	if u.IsBannedFromTalkgroup(tg.ID) {
		u.State = model.UnitIdleRegistered
		return nil
	}
	if u.AffiliationAttempts[tg.ID] >= model.MaxAffiliationAttempts {
		u.State = model.UnitIdleRegistered
		return nil
	}
	u.State = model.UnitAffiliating
	req := signaling.NewGroupAffiliationRequest(u.ID, tg.ID)
	return &req
}

// HandleAffiliationResponse applies a GroupAffiliationResponse to the unit.
func HandleAffiliationResponse(u *model.Unit, resp signaling.GroupAffiliationResponse) {
	switch resp.Status {
	case signaling.AffAccepted:
		u.State = model.UnitIdleAffiliated
		u.AffiliatedTalkgroupID = u.SelectedTalkgroupID
		u.HasAffiliatedTalkgroup = true
		delete(u.AffiliationAttempts, resp.TalkgroupID)
	case signaling.AffDenied:
		u.State = model.UnitSearchingForSite
		if u.HasCurrentSite {
			u.BannedSites[model.SiteBanKey{ZoneID: resp.ZoneID, SiteID: u.CurrentSiteID}] = struct{}{}
		}
	case signaling.AffFailed:
		u.AffiliationAttempts[resp.TalkgroupID]++
		u.State = model.UnitIdleRegistered
	case signaling.AffRefused:
		u.BannedTalkgroups[resp.TalkgroupID] = struct{}{}
		u.State = model.UnitIdleRegistered
	}
}

// HandleVoiceChannelGrant transitions the unit to IN_CALL if it is in
// CALL_REQUESTED or IDLE_AFFILIATED; otherwise the grant is ignored (unit
// busy with something else).
func HandleVoiceChannelGrant(u *model.Unit) bool {
	if u.State == model.UnitCallRequested || u.State == model.UnitIdleAffiliated {
		u.State = model.UnitInCall
		return true
	}
	return false
}

// Unban idempotently removes a (zone, site) pair from the unit's ban list.
func Unban(u *model.Unit, zoneID, siteID int) {
	delete(u.BannedSites, model.SiteBanKey{ZoneID: zoneID, SiteID: siteID})
}
