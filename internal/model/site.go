package model

import "sort"

// Site is an RF site within a Zone: the unit of channel allocation.
//
// A Site must own at least one Subsite; NewSite rejects one that doesn't,
// matching the prototype's __post_init__ check.
type Site struct {
	ID             int
	ZoneID         int
	Alias          string
	AssignmentMode AssignmentMode
	Channels       map[int]*Channel
	Subsites       []Subsite
	Status         SiteStatus

	// ControlChannelID is meaningful only when HasControlChannel is true.
	ControlChannelID int
	HasControlChannel bool

	// Registrations holds the unit ids (Units and Consoles share one id
	// space) currently registered on this site's control channel.
	Registrations []int

	// AssignedVoiceChannels maps an allocation key to the call id occupying
	// it. Owned exclusively by the zone controller that owns this site.
	AssignedVoiceChannels map[VoiceChannelKey]int
}

// NewSite constructs a Site, validating that it has at least one subsite.
func NewSite(id, zoneID int, alias string, mode AssignmentMode, subsites []Subsite) (*Site, error) {
	if len(subsites) == 0 {
		return nil, &ConfigError{Msg: "site must be initialized with at least one subsite"}
	}
	return &Site{
		ID:                    id,
		ZoneID:                zoneID,
		Alias:                 alias,
		AssignmentMode:        mode,
		Channels:              make(map[int]*Channel),
		Subsites:              subsites,
		Status:                SiteOffline,
		AssignedVoiceChannels: make(map[VoiceChannelKey]int),
	}, nil
}

// EnabledChannels returns the site's enabled channels, sorted by id.
func (s *Site) EnabledChannels() []*Channel {
	out := make([]*Channel, 0, len(s.Channels))
	for _, c := range s.Channels {
		if c.Enabled {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Initialize selects the lowest-id enabled control-capable channel as the
// site's control channel, and sets Status to Online if at least one enabled
// non-control voice channel also exists; otherwise Status becomes Failed.
// Returns whether the site came online.
func (s *Site) Initialize() bool {
	enabled := s.EnabledChannels()
	if len(enabled) == 0 {
		s.Status = SiteFailed
		return false
	}
	var ccs []*Channel
	for _, c := range enabled {
		if c.Control {
			ccs = append(ccs, c)
		}
	}
	if len(ccs) == 0 {
		s.Status = SiteFailed
		return false
	}
	var voice []*Channel
	for _, c := range enabled {
		if !c.Control && (c.FDMA || c.TDMA) {
			voice = append(voice, c)
		}
	}
	if len(voice) == 0 {
		s.Status = SiteFailed
		return false
	}
	s.ControlChannelID = ccs[0].ID
	s.HasControlChannel = true
	s.Status = SiteOnline
	return true
}

// VoiceChannelCount is the number of enabled, non-control channels — the
// conservative capacity bound used by HasAvailableVoiceChannel.
func (s *Site) VoiceChannelCount() int {
	n := 0
	for _, c := range s.Channels {
		if c.Enabled && !c.Control {
			n++
		}
	}
	return n
}

// HasAvailableVoiceChannel is a conservative early gate: true iff fewer
// voice channel keys are assigned than there are enabled non-control
// channels.
func (s *Site) HasAvailableVoiceChannel() bool {
	return len(s.AssignedVoiceChannels) < s.VoiceChannelCount()
}

// AddRegistration appends unitID to Registrations if not already present
// (idempotent — re-registering the same unit on the same site is a no-op).
func (s *Site) AddRegistration(unitID int) {
	for _, id := range s.Registrations {
		if id == unitID {
			return
		}
	}
	s.Registrations = append(s.Registrations, unitID)
}

// RemoveRegistration removes unitID from Registrations, if present.
func (s *Site) RemoveRegistration(unitID int) {
	for i, id := range s.Registrations {
		if id == unitID {
			s.Registrations = append(s.Registrations[:i], s.Registrations[i+1:]...)
			return
		}
	}
}
