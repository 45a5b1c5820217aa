package signaling

import "github.com/trunkradio/radiosim/internal/model"

// Event is anything schedulable on the simulation clock: it carries the
// priority used for (execution_time, priority, sequence) ordering.
type Event interface {
	Priority() model.EventPriority
}

// base supplies the Priority() method most message types need; embed it and
// set Prio in the constructor.
type base struct {
	Prio model.EventPriority
}

func (b base) Priority() model.EventPriority { return b.Prio }

// --- Command surface (external callers enqueue these; spec §6) ---

// UnitPowerOnCommand requests that a unit begin its power-on sequence.
type UnitPowerOnCommand struct {
	base
	UnitID int
}

func NewUnitPowerOnCommand(unitID int) UnitPowerOnCommand {
	return UnitPowerOnCommand{base{model.PriorityDefault}, unitID}
}

// UnitUpdateLocationCommand moves a unit to a new location.
type UnitUpdateLocationCommand struct {
	base
	UnitID      int
	NewLocation model.Coordinates
}

func NewUnitUpdateLocationCommand(unitID int, loc model.Coordinates) UnitUpdateLocationCommand {
	return UnitUpdateLocationCommand{base{model.PriorityDefault}, unitID, loc}
}

// UnitScanForSitesCommand asks a unit to run the RF scan model.
type UnitScanForSitesCommand struct {
	base
	UnitID int
}

func NewUnitScanForSitesCommand(unitID int) UnitScanForSitesCommand {
	return UnitScanForSitesCommand{base{model.PriorityDefault}, unitID}
}

// UnitInitiateCallCommand requests a group voice call on behalf of a unit.
type UnitInitiateCallCommand struct {
	base
	UnitID      int
	TalkgroupID int
}

func NewUnitInitiateCallCommand(unitID, talkgroupID int) UnitInitiateCallCommand {
	return UnitInitiateCallCommand{base{model.PriorityDefault}, unitID, talkgroupID}
}

// UnitEndTransmissionCommand ends a unit's transmission on an active call.
type UnitEndTransmissionCommand struct {
	base
	UnitID int
	CallID int
}

func NewUnitEndTransmissionCommand(unitID, callID int) UnitEndTransmissionCommand {
	return UnitEndTransmissionCommand{base{model.PriorityDefault}, unitID, callID}
}

// ConsoleInitiateCallCommand is a console PTT; always carries PREEMPT
// priority.
type ConsoleInitiateCallCommand struct {
	base
	ConsoleID   int
	TalkgroupID int
}

func NewConsoleInitiateCallCommand(consoleID, talkgroupID int) ConsoleInitiateCallCommand {
	return ConsoleInitiateCallCommand{base{model.PriorityPreempt}, consoleID, talkgroupID}
}

// UnitUnbanFromSiteCommand idempotently lifts a registration ban. Carries
// ZoneID explicitly: the ban key is (zone_id, site_id), and the prototype's
// omission of zone_id on this command was flagged as an open question in
// spec §9 — this is the resolution.
type UnitUnbanFromSiteCommand struct {
	base
	ZoneID int
	UnitID int
	SiteID int
}

func NewUnitUnbanFromSiteCommand(zoneID, unitID, siteID int) UnitUnbanFromSiteCommand {
	return UnitUnbanFromSiteCommand{base{model.PrioritySystem}, zoneID, unitID, siteID}
}

// --- Signaling messages (inbound/outbound, spec §6) ---

// UnitRegistrationRequest is sent by a unit to the site it has scanned best.
type UnitRegistrationRequest struct {
	base
	UnitID int
	SiteID int
}

func NewUnitRegistrationRequest(unitID, siteID int) UnitRegistrationRequest {
	return UnitRegistrationRequest{base{model.PriorityDefault}, unitID, siteID}
}

// UnitRegistrationResponse is the system's reply to a registration request.
type UnitRegistrationResponse struct {
	base
	UnitID int
	SiteID int
	ZoneID int
	Status RegistrationStatus
}

func NewUnitRegistrationResponse(unitID, siteID, zoneID int, status RegistrationStatus) UnitRegistrationResponse {
	return UnitRegistrationResponse{base{model.PriorityDefault}, unitID, siteID, zoneID, status}
}

// GroupAffiliationRequest is sent by a registered unit to join a talkgroup.
type GroupAffiliationRequest struct {
	base
	UnitID      int
	TalkgroupID int
}

func NewGroupAffiliationRequest(unitID, talkgroupID int) GroupAffiliationRequest {
	return GroupAffiliationRequest{base{model.PriorityDefault}, unitID, talkgroupID}
}

// GroupAffiliationResponse is the system's reply to an affiliation request.
type GroupAffiliationResponse struct {
	base
	UnitID      int
	TalkgroupID int
	ZoneID      int
	Status      AffiliationStatus
}

func NewGroupAffiliationResponse(unitID, talkgroupID, zoneID int, status AffiliationStatus) GroupAffiliationResponse {
	return GroupAffiliationResponse{base{model.PriorityDefault}, unitID, talkgroupID, zoneID, status}
}

// GroupVoiceServiceRequest requests a group voice call at the given
// priority (already resolved from talkgroup/group/console overrides by the
// caller — see zone.Controller.handleUnitInitiateCallCommand).
type GroupVoiceServiceRequest struct {
	base
	UnitID      int
	TalkgroupID int
}

func NewGroupVoiceServiceRequest(unitID, talkgroupID int, priority model.EventPriority) GroupVoiceServiceRequest {
	return GroupVoiceServiceRequest{base{priority}, unitID, talkgroupID}
}

// GroupVoiceChannelGrant tells an affiliated unit which channel/slot to tune
// to for an active call.
type GroupVoiceChannelGrant struct {
	base
	UnitID      int
	TalkgroupID int
	CallID      int
	ChannelID   int
	TDMASlot    model.TDMASlot
}

func NewGroupVoiceChannelGrant(unitID, talkgroupID, callID, channelID int, slot model.TDMASlot) GroupVoiceChannelGrant {
	return GroupVoiceChannelGrant{base{model.PriorityHigh}, unitID, talkgroupID, callID, channelID, slot}
}

// QueuedResponse tells an initiator its call request was queued under
// contention.
type QueuedResponse struct {
	base
	UnitID      int
	TalkgroupID int
}

func NewQueuedResponse(unitID, talkgroupID int) QueuedResponse {
	return QueuedResponse{base{model.PriorityDefault}, unitID, talkgroupID}
}

// ControlChannelEstablishRequest announces that a site's control channel
// came online.
type ControlChannelEstablishRequest struct {
	base
	SiteID    int
	ZoneID    int
	ChannelID int
}

func NewControlChannelEstablishRequest(siteID, zoneID, channelID int) ControlChannelEstablishRequest {
	return ControlChannelEstablishRequest{base{model.PrioritySystem}, siteID, zoneID, channelID}
}

// CallTeardownCommand releases a call's channels, unless the call has been
// re-keyed since the teardown was scheduled.
type CallTeardownCommand struct {
	base
	CallID int
}

func NewCallTeardownCommand(callID int, priority model.EventPriority) CallTeardownCommand {
	return CallTeardownCommand{base{priority}, callID}
}
