package model

// Talkgroup is a logical voice group units affiliate to.
type Talkgroup struct {
	ID         int
	Alias      string
	HangtimeMs int
	PTTID      bool
	Mode       CallMode
	Priority   EventPriority
	AllStart   bool
	// ValidSites restricts affiliation to a subset of a zone's sites; empty
	// means no restriction.
	ValidSites []int
}

// ValidOnSite reports whether affiliation is permitted on the given site id.
func (t *Talkgroup) ValidOnSite(siteID int) bool {
	if len(t.ValidSites) == 0 {
		return true
	}
	for _, id := range t.ValidSites {
		if id == siteID {
			return true
		}
	}
	return false
}
