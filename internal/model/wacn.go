package model

// RFSS (a Zone) is an administrative domain containing sites, talkgroups,
// units, consoles and groups. Each RFSS has exactly one controller instance
// at runtime (see internal/zone).
type RFSS struct {
	ID         int
	Alias      string
	Area       *OperationalArea
	Sites      map[int]*Site
	Talkgroups map[int]*Talkgroup
	Units      map[int]*Unit
	Groups     map[int]*Group
}

// NewRFSS constructs an empty zone ready to be populated by a config loader.
func NewRFSS(id int, alias string, area *OperationalArea) *RFSS {
	return &RFSS{
		ID:         id,
		Alias:      alias,
		Area:       area,
		Sites:      make(map[int]*Site),
		Talkgroups: make(map[int]*Talkgroup),
		Units:      make(map[int]*Unit),
		Groups:     make(map[int]*Group),
	}
}

// WACN is the top-level configuration tree: a wide-area common network
// identifier owning one or more zones.
type WACN struct {
	ID    int
	Zones map[int]*RFSS
	Area  *OperationalArea
}

// NewWACN constructs an empty WACN.
func NewWACN(id int, area *OperationalArea) *WACN {
	return &WACN{ID: id, Zones: make(map[int]*RFSS), Area: area}
}

// SystemConfig is the root of the loaded configuration tree.
type SystemConfig struct {
	WACN *WACN
}
