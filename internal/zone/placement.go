package zone

import "github.com/trunkradio/radiosim/internal/model"

// randomPointInArea uniformly samples a point within area's rectangle,
// component-wise — ported from original_source/geo_utils.py's
// get_random_point_in_area.
func randomPointInArea(area *model.OperationalArea, rnd interface{ Float64() float64 }) model.Coordinates {
	lat := area.TopLeft.Latitude + rnd.Float64()*(area.BottomRight.Latitude-area.TopLeft.Latitude)
	lon := area.TopLeft.Longitude + rnd.Float64()*(area.BottomRight.Longitude-area.TopLeft.Longitude)
	return model.Coordinates{Latitude: lat, Longitude: lon}
}

// placementArea resolves where a powered-on unit with no location should be
// placed: its first group with an area wins, else the WACN's area.
func (c *Controller) placementArea(u *model.Unit) *model.OperationalArea {
	for _, gid := range u.GroupIDs {
		if g, ok := c.zone.Groups[gid]; ok && g.Area != nil {
			return g.Area
		}
	}
	return c.wacn.Area
}

// firstTalkgroupID returns the lowest-id talkgroup in the zone, used when a
// powered-on unit has no selected talkgroup.
func (c *Controller) firstTalkgroupID() (int, bool) {
	best, found := 0, false
	for id := range c.zone.Talkgroups {
		if !found || id < best {
			best, found = id, true
		}
	}
	return best, found
}
