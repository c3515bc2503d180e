package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/qrsdetect/pkg/session"
)

func TestDatedFilenameRendersStrftimePattern(t *testing.T) {
	ts := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)

	name, err := session.DatedFilename(session.DefaultFilenamePattern, ts)

	require.NoError(t, err)
	assert.Equal(t, "qrsdetect-20260305-143000.csv", name)
}

func TestDatedFilenameRejectsBadPattern(t *testing.T) {
	_, err := session.DatedFilename("%Q", time.Now())

	// %Q is not a strftime verb, so pattern compilation fails and
	// DatedFilename returns the error.
	require.Error(t, err)
}

func TestTagSiteConvertsKnownCoordinate(t *testing.T) {
	// Eastern Massachusetts, near Lowell -- same coordinate the teacher's ll2utm usage example
	// in its own help text uses.
	tag, err := session.TagSite(session.Site{Latitude: 42.662139, Longitude: -71.365553})

	require.NoError(t, err)
	assert.Equal(t, 19, tag.Zone)
	assert.Equal(t, int32('N'), int32(tag.Hemisphere))
	assert.InDelta(t, 500000, tag.Easting, 400000, "UTM easting stays within a zone's valid range")
	assert.Greater(t, tag.Northing, 4000000.0, "a mid-northern-latitude UTM northing is well above zero")
}

func TestSiteTagStringFormat(t *testing.T) {
	tag := session.SiteTag{Zone: 17, Hemisphere: 'N', Easting: 630084, Northing: 4833438}

	assert.Equal(t, "17N 630084E 4833438N", tag.String())
}
