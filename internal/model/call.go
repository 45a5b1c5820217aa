package model

// RadioCall is a group voice call in progress or recently ended, scoped to a
// single zone.
type RadioCall struct {
	ID               int
	InitiatingUnitID int
	TalkgroupID      int
	Mode             CallMode
	Status           CallStatus

	// AssignedChannelsBySite maps site id to the voice channel key allocated
	// on that site for this call.
	AssignedChannelsBySite map[int]VoiceChannelKey

	// TransmissionRestarted records that a unit re-keyed this talkgroup
	// while a teardown was already scheduled; the pending
	// CallTeardownCommand must observe this and cancel rather than release
	// channels out from under the new transmission. See spec Open
	// Questions on hangtime re-key handling.
	TransmissionRestarted bool

	// QueuedAt is the simulation time (seconds) the call was pushed onto
	// the call_busy_queue, used as the secondary queue ordering key.
	QueuedAt float64
}

// NewRadioCall constructs a fresh call in Requested status.
func NewRadioCall(id, initiatingUnitID, talkgroupID int, mode CallMode) *RadioCall {
	return &RadioCall{
		ID:                     id,
		InitiatingUnitID:       initiatingUnitID,
		TalkgroupID:            talkgroupID,
		Mode:                   mode,
		Status:                 CallRequested,
		AssignedChannelsBySite: make(map[int]VoiceChannelKey),
	}
}
