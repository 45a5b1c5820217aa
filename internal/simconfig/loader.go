package simconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trunkradio/radiosim/internal/model"
)

// Load reads and parses the YAML configuration file at path into a
// *model.SystemConfig, ready to hand to one zone.Controller per zone.
func Load(path string) (*model.SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Build()
}

func toArea(a *AreaDoc) *model.OperationalArea {
	if a == nil {
		return nil
	}
	return &model.OperationalArea{
		TopLeft:     model.Coordinates{Latitude: a.TopLeft.Lat, Longitude: a.TopLeft.Lon},
		BottomRight: model.Coordinates{Latitude: a.BottomRight.Lat, Longitude: a.BottomRight.Lon},
	}
}

// Build converts the parsed YAML document into the runtime entity arena,
// applying the same fatal-on-invalid-enum / missing-subsite rules as the
// source prototype's dataclass __post_init__ hooks (spec §7 configuration
// errors).
func (d Document) Build() (*model.SystemConfig, error) {
	wacn := model.NewWACN(d.WACN.ID, toArea(d.WACN.Area))

	for zoneID, zd := range d.WACN.Zones {
		zone := model.NewRFSS(zoneID, zd.Alias, toArea(zd.Area))

		for siteID, sd := range zd.Sites {
			mode, err := model.ParseAssignmentMode(sd.AssignmentMode)
			if err != nil {
				return nil, fmt.Errorf("zone %d site %d: %w", zoneID, siteID, err)
			}
			subsites := make([]model.Subsite, 0, len(sd.Subsites))
			for _, sub := range sd.Subsites {
				subsites = append(subsites, model.Subsite{
					ID:    sub.ID,
					Alias: sub.Alias,
					Location: model.Coordinates{
						Latitude: sub.Location.Lat, Longitude: sub.Location.Lon,
					},
					OperatingRadiusKm: sub.OperatingRadiusKm,
				})
			}
			site, err := model.NewSite(siteID, zoneID, sd.Alias, mode, subsites)
			if err != nil {
				return nil, fmt.Errorf("zone %d site %d: %w", zoneID, siteID, err)
			}
			for chID, cd := range sd.Channels {
				site.Channels[chID] = &model.Channel{
					ID: chID, FreqTX: cd.FreqTX, FreqRX: cd.FreqRX,
					Enabled: cd.Enabled, FDMA: cd.FDMA, TDMA: cd.TDMA,
					Control: cd.Control, Data: cd.Data, BSI: cd.BSI,
				}
			}
			zone.Sites[siteID] = site
		}

		for tgID, td := range zd.Talkgroups {
			mode, err := model.ParseCallMode(td.Mode)
			if err != nil {
				return nil, fmt.Errorf("zone %d talkgroup %d: %w", zoneID, tgID, err)
			}
			priority, err := model.ParsePriority(td.Priority)
			if err != nil {
				return nil, fmt.Errorf("zone %d talkgroup %d: %w", zoneID, tgID, err)
			}
			zone.Talkgroups[tgID] = &model.Talkgroup{
				ID: tgID, Alias: td.Alias, HangtimeMs: td.HangtimeMs, PTTID: td.PTTID,
				Mode: mode, Priority: priority, AllStart: td.AllStart, ValidSites: td.ValidSites,
			}
		}

		for uID, ud := range zd.Units {
			zone.Units[uID] = model.NewUnit(uID, ud.Alias, ud.TDMACapable)
		}
		for cID, cd := range zd.Consoles {
			zone.Units[cID] = model.NewConsole(cID, cd.Alias, cd.AffiliatedTalkgroupIDs)
		}

		for gID, gd := range zd.Groups {
			priority, err := model.ParsePriority(gd.Priority)
			if err != nil {
				return nil, fmt.Errorf("zone %d group %d: %w", zoneID, gID, err)
			}
			unitIDs := append(append([]int{}, gd.Members.Units...), gd.Members.Consoles...)
			zone.Groups[gID] = &model.Group{
				ID: gID, Alias: gd.Alias, Priority: priority,
				UnitIDs: unitIDs, TalkgroupIDs: gd.Members.Talkgroups,
				Area: toArea(gd.Area),
			}
			for _, uid := range unitIDs {
				if u, ok := zone.Units[uid]; ok {
					u.GroupIDs = append(u.GroupIDs, gID)
				}
			}
		}

		wacn.Zones[zoneID] = zone
	}

	return &model.SystemConfig{WACN: wacn}, nil
}
