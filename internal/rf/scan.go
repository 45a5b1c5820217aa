// Package rf implements the deterministic RF site-scan model (spec §4.5): a
// distance-linear approximation of signal strength with bounded jitter, not
// real RF propagation. Randomness is injected so scans are reproducible in
// tests.
package rf

import (
	"math"

	"github.com/trunkradio/radiosim/internal/model"
)

const earthRadiusKm = 6371.0

// Rand is the minimal randomness surface the scan model needs.
type Rand interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// Distance returns the great-circle distance between a and b in
// kilometers.
func Distance(a, b model.Coordinates) float64 {
	lat1, lat2 := a.Latitude*math.Pi/180, b.Latitude*math.Pi/180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// EstimateRSSI maps a distance and a subsite's coverage radius to a dBm
// estimate and a 0-4 bar level. distance >= the subsite's operating radius
// always returns (-125, 0). Otherwise dBm decreases linearly with distance
// from -50 at zero range, with uniform jitter in [-5, 5), clamped to
// [-125, -50].
func EstimateRSSI(distanceKm float64, subsite model.Subsite, rnd Rand) (dbm float64, level int) {
	maxDistance := subsite.OperatingRadiusKm
	if distanceKm >= maxDistance {
		return -125, 0
	}
	base := -50 - 75*(distanceKm/maxDistance)
	jitter := -5 + rnd.Float64()*10
	dbm = base + jitter
	if dbm < -125 {
		dbm = -125
	}
	if dbm > -50 {
		dbm = -50
	}
	switch {
	case dbm >= -70:
		level = 4
	case dbm >= -90:
		level = 3
	case dbm >= -110:
		level = 2
	default:
		level = 1
	}
	return dbm, level
}

// Candidate is one subsite's scan result.
type Candidate struct {
	ZoneID     int
	SiteID     int
	SubsiteID  int
	DistanceKm float64
	DBm        float64
	Level      int
}

// better reports whether c is a stronger candidate than other by the tie-
// break rules in spec §4.5: higher level wins; ties broken by lower
// distance, then by lower (zone_id, site_id, subsite_id).
func (c Candidate) better(other Candidate) bool {
	if c.Level != other.Level {
		return c.Level > other.Level
	}
	if c.DistanceKm != other.DistanceKm {
		return c.DistanceKm < other.DistanceKm
	}
	if c.ZoneID != other.ZoneID {
		return c.ZoneID < other.ZoneID
	}
	if c.SiteID != other.SiteID {
		return c.SiteID < other.SiteID
	}
	return c.SubsiteID < other.SubsiteID
}

// Scanner runs the best-subsite search across a WACN's online sites.
type Scanner struct {
	rand Rand
}

// New constructs a Scanner with the given randomness source.
func New(rand Rand) *Scanner {
	return &Scanner{rand: rand}
}

// Scan searches every Online site in every zone of wacn, skipping any site
// the unit has banned, and returns the strongest candidate subsite. The
// second return value is false if no site returned a non-zero level (or
// the unit has no location set).
func (s *Scanner) Scan(unit *model.Unit, wacn *model.WACN) (Candidate, bool) {
	if unit.Location == nil {
		return Candidate{}, false
	}
	var best Candidate
	found := false
	for _, zone := range wacn.Zones {
		for _, site := range zone.Sites {
			if site.Status != model.SiteOnline {
				continue
			}
			if unit.IsBannedFromSite(zone.ID, site.ID) {
				continue
			}
			for _, sub := range site.Subsites {
				d := Distance(*unit.Location, sub.Location)
				dbm, level := EstimateRSSI(d, sub, s.rand)
				if level == 0 {
					continue
				}
				cand := Candidate{
					ZoneID: zone.ID, SiteID: site.ID, SubsiteID: sub.ID,
					DistanceKm: d, DBm: dbm, Level: level,
				}
				if !found || cand.better(best) {
					best = cand
					found = true
				}
			}
		}
	}
	return best, found
}
