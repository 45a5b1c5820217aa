package zone

import (
	"sort"

	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/signaling"
	"github.com/trunkradio/radiosim/internal/units"
)

// InitializeSystem brings every site in the zone online (or Failed) and
// registers every console on every site that came online, per spec §4.6.
func (c *Controller) InitializeSystem() {
	siteIDs := make([]int, 0, len(c.zone.Sites))
	for id := range c.zone.Sites {
		siteIDs = append(siteIDs, id)
	}
	sort.Ints(siteIDs)
	for _, id := range siteIDs {
		site := c.zone.Sites[id]
		if site.Initialize() {
			c.clock.Publish(signaling.NewControlChannelEstablishRequest(site.ID, c.zone.ID, site.ControlChannelID))
		}
	}

	unitIDs := make([]int, 0, len(c.zone.Units))
	for id := range c.zone.Units {
		unitIDs = append(unitIDs, id)
	}
	sort.Ints(unitIDs)
	for _, id := range unitIDs {
		u := c.zone.Units[id]
		if !u.IsConsole {
			continue
		}
		units.PowerOn(u)
		u.State = model.UnitIdleRegistered
		for _, siteID := range siteIDs {
			site := c.zone.Sites[siteID]
			if site.Status == model.SiteOnline {
				site.AddRegistration(u.ID)
			}
		}
	}

	c.refreshGauges()
}
