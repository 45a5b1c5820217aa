package model

import "strings"

// UnitState is the operational state of a Unit's registration/affiliation
// lifecycle.
type UnitState int

const (
	UnitPoweredOff UnitState = iota
	UnitSearchingForSite
	UnitRegistering
	UnitIdleRegistered
	UnitAffiliating
	UnitIdleAffiliated
	UnitCallRequested
	UnitInCall
	UnitFailed
)

func (s UnitState) String() string {
	switch s {
	case UnitPoweredOff:
		return "POWERED_OFF"
	case UnitSearchingForSite:
		return "SEARCHING_FOR_SITE"
	case UnitRegistering:
		return "REGISTERING"
	case UnitIdleRegistered:
		return "IDLE_REGISTERED"
	case UnitAffiliating:
		return "AFFILIATING"
	case UnitIdleAffiliated:
		return "IDLE_AFFILIATED"
	case UnitCallRequested:
		return "CALL_REQUESTED"
	case UnitInCall:
		return "IN_CALL"
	case UnitFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// SiteStatus is the operational status of a Site.
type SiteStatus int

const (
	SiteOffline SiteStatus = iota
	SiteInitializing
	SiteOnline
	SiteFailed
	SiteTrunking
)

func (s SiteStatus) String() string {
	switch s {
	case SiteOffline:
		return "OFFLINE"
	case SiteInitializing:
		return "INITIALIZING"
	case SiteOnline:
		return "ONLINE"
	case SiteFailed:
		return "FAILED"
	case SiteTrunking:
		return "SITE_TRUNKING"
	default:
		return "UNKNOWN"
	}
}

// CallStatus is the lifecycle state of a RadioCall.
type CallStatus int

const (
	CallIdle CallStatus = iota
	CallRequested
	CallActive
	CallQueued
	CallPreempted
	CallEnded
)

func (s CallStatus) String() string {
	switch s {
	case CallIdle:
		return "IDLE"
	case CallRequested:
		return "REQUESTED"
	case CallActive:
		return "ACTIVE"
	case CallQueued:
		return "QUEUED"
	case CallPreempted:
		return "PREEMPTED"
	case CallEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// CallMode is the air-interface mode a talkgroup call is carried in.
type CallMode int

const (
	ModeFDMA CallMode = iota
	ModeTDMA
	ModeMixed
)

func (m CallMode) String() string {
	switch m {
	case ModeFDMA:
		return "FDMA"
	case ModeTDMA:
		return "TDMA"
	case ModeMixed:
		return "MIXED"
	default:
		return "UNKNOWN"
	}
}

// ParseCallMode parses a case-insensitive mode name from YAML config.
func ParseCallMode(s string) (CallMode, error) {
	switch strings.ToUpper(s) {
	case "FDMA":
		return ModeFDMA, nil
	case "TDMA":
		return ModeTDMA, nil
	case "MIXED":
		return ModeMixed, nil
	default:
		return 0, &ConfigError{Msg: "invalid call mode " + s}
	}
}

// AssignmentMode is a Site's voice-channel assignment strategy.
type AssignmentMode int

const (
	AssignRotating AssignmentMode = iota
	AssignRandom
	AssignBalanced
)

func (m AssignmentMode) String() string {
	switch m {
	case AssignRotating:
		return "rotating"
	case AssignRandom:
		return "random"
	case AssignBalanced:
		return "balanced"
	default:
		return "unknown"
	}
}

// ParseAssignmentMode parses a case-insensitive assignment_mode name.
func ParseAssignmentMode(s string) (AssignmentMode, error) {
	switch strings.ToLower(s) {
	case "rotating":
		return AssignRotating, nil
	case "random":
		return AssignRandom, nil
	case "balanced":
		return AssignBalanced, nil
	default:
		return 0, &ConfigError{Msg: "invalid assignment_mode " + s}
	}
}

// ConfigError is a fatal, load-time configuration error (missing required
// field, invalid enum value, structurally invalid entity).
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }
