package session

import (
	"fmt"
	"math"
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/lestrrat-go/strftime"
	"github.com/tzneal/coordconv"
)

// DefaultFilenamePattern names a dated CSV output file the way the
// teacher lets kissutil/xmit.go timestamp frames with a configurable
// strftime pattern.
const DefaultFilenamePattern = "qrsdetect-%Y%m%d-%H%M%S.csv"

// DatedFilename renders pattern against t using strftime semantics. A
// bad pattern is the caller's own config mistake, so the error is
// returned rather than silently falling back to something else.
func DatedFilename(pattern string, t time.Time) (string, error) {
	name, err := strftime.Format(pattern, t)
	if err != nil {
		return "", fmt.Errorf("session: formatting filename pattern %q: %w", pattern, err)
	}

	return name, nil
}

// Site is a fixed capture location, for field deployments (ambulance,
// EMS, home-monitoring kits) that tag each recording with where it was
// taken.
type Site struct {
	Latitude  float64
	Longitude float64
}

// SiteTag is a Site converted to UTM, suitable for embedding in a CSV
// filename or a session-metadata sidecar file.
type SiteTag struct {
	Zone       int
	Hemisphere rune
	Easting    float64
	Northing   float64
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// TagSite converts s to UTM using the same converter the teacher's
// cmd/samoyed-ll2utm uses, via the tzneal/coordconv + github.com/golang/geo/s2
// pairing.
func TagSite(s Site) (SiteTag, error) {
	latLng := s2.LatLng{
		Lat: s1.Angle(degreesToRadians(s.Latitude)),
		Lng: s1.Angle(degreesToRadians(s.Longitude)),
	}

	utm, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(latLng, 0)
	if err != nil {
		return SiteTag{}, fmt.Errorf("session: converting site %+v to UTM: %w", s, err)
	}

	return SiteTag{
		Zone:       utm.Zone,
		Hemisphere: hemisphereToRune(utm.Hemisphere),
		Easting:    utm.Easting,
		Northing:   utm.Northing,
	}, nil
}

func hemisphereToRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'N'
	case coordconv.HemisphereSouth:
		return 'S'
	default:
		return '?'
	}
}

// String renders a SiteTag the way a CSV sidecar or log line would
// display it: "17N 630084E 4833438N".
func (t SiteTag) String() string {
	return fmt.Sprintf("%d%c %.0fE %.0fN", t.Zone, t.Hemisphere, t.Easting, t.Northing)
}
