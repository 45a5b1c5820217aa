package model

// MaxAffiliationAttempts bounds retries of GroupAffiliationRequest for a
// single talkgroup before the unit stops retrying on its own.
const MaxAffiliationAttempts = 3

// SiteBanKey identifies a (zone, site) pair a unit has been temporarily or
// permanently excluded from scanning.
type SiteBanKey struct {
	ZoneID int
	SiteID int
}

// Unit is a subscriber radio. A Console is a Unit with IsConsole set: always
// tdma_capable, carrying a list of pre-affiliated talkgroups and elevated
// console privileges. Units and Consoles share one id space and one arena,
// per the "no class hierarchy" design note — there is no separate Console
// type.
type Unit struct {
	ID          int
	Alias       string
	TDMACapable bool
	State       UnitState

	Location *Coordinates

	CurrentSiteID  int
	HasCurrentSite bool

	SelectedTalkgroupID  int
	HasSelectedTalkgroup bool

	AffiliatedTalkgroupID  int
	HasAffiliatedTalkgroup bool

	GroupIDs []int

	BannedSites         map[SiteBanKey]struct{}
	BannedTalkgroups    map[int]struct{}
	AffiliationAttempts map[int]int

	CurrentCallID  int
	HasCurrentCall bool

	// Console-only fields; zero-valued for ordinary units.
	IsConsole                bool
	ConsoleTalkgroupIDs      []int
	CanPatchTalkgroups       bool
	CanInhibitUnits          bool
}

// NewUnit constructs an ordinary subscriber unit, powered off.
func NewUnit(id int, alias string, tdmaCapable bool) *Unit {
	return &Unit{
		ID:                  id,
		Alias:               alias,
		TDMACapable:         tdmaCapable,
		State:               UnitPoweredOff,
		BannedSites:         make(map[SiteBanKey]struct{}),
		BannedTalkgroups:    make(map[int]struct{}),
		AffiliationAttempts: make(map[int]int),
	}
}

// NewConsole constructs a console: always tdma_capable, with elevated
// privileges and a fixed set of pre-affiliated talkgroups.
func NewConsole(id int, alias string, talkgroupIDs []int) *Unit {
	u := NewUnit(id, alias, true)
	u.IsConsole = true
	u.ConsoleTalkgroupIDs = talkgroupIDs
	u.CanPatchTalkgroups = true
	u.CanInhibitUnits = true
	return u
}

// PowerOn transitions POWERED_OFF -> SEARCHING_FOR_SITE, clearing all
// transient per-session state. A no-op from any other state.
func (u *Unit) PowerOn() {
	if u.State != UnitPoweredOff {
		return
	}
	u.State = UnitSearchingForSite
	u.BannedSites = make(map[SiteBanKey]struct{})
	u.BannedTalkgroups = make(map[int]struct{})
	u.AffiliationAttempts = make(map[int]int)
	u.HasCurrentSite = false
	u.HasAffiliatedTalkgroup = false
}

// IsBannedFromSite reports whether the unit currently excludes the given
// (zone, site) pair from scanning.
func (u *Unit) IsBannedFromSite(zoneID, siteID int) bool {
	_, banned := u.BannedSites[SiteBanKey{ZoneID: zoneID, SiteID: siteID}]
	return banned
}

// IsBannedFromTalkgroup reports a permanent REFUSED ban for the session.
func (u *Unit) IsBannedFromTalkgroup(tgID int) bool {
	_, banned := u.BannedTalkgroups[tgID]
	return banned
}
