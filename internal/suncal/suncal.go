// Package suncal computes the daily sunrise and sunset calendar events.
package suncal

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"suncal-service/internal/ical"
)

const (
	// Window is centered on "today" in UTC: 180 days back, 180 days forward.
	daysBefore = 180
	daysAfter  = 180

	feetToMeters = 0.3048

	// Depression marking the end of sunrise / start of sunset: the sun's
	// center 0.3 degrees below the horizon, when the disc has just cleared it.
	sunriseEndDepression = 0.3
)

// dayTimes holds the six computed instants for one day.
type dayTimes struct {
	dawn        time.Time
	sunrise     time.Time
	sunriseEnd  time.Time
	sunsetStart time.Time
	sunset      time.Time
	dusk        time.Time
}

// Events returns two events per day over the 360-day window around now:
// a "Sunrise" event spanning dawn to sunrise end, and a "Sunset" event
// spanning sunset start to dusk. Days the sun never crosses the relevant
// elevations (polar latitudes) are skipped.
func Events(latitude, longitude, heightFeet float64, now time.Time, tzOffsetHours float64) []ical.Event {
	observer := astral.Observer{
		Latitude:  latitude,
		Longitude: longitude,
		Elevation: heightFeet * feetToMeters,
	}

	today := now.UTC().Truncate(24 * time.Hour)
	events := make([]ical.Event, 0, 2*(daysBefore+daysAfter))

	for d := -daysBefore; d < daysAfter; d++ {
		date := today.AddDate(0, 0, d)
		times, err := computeDay(observer, date)
		if err != nil {
			continue
		}

		day := date.Format("20060102")
		events = append(events,
			ical.Event{
				UID:         "sunrise-" + day + "@suncal",
				Summary:     "Sunrise",
				Description: "Sunrise at " + localClock(times.sunrise, tzOffsetHours),
				Start:       times.dawn,
				End:         times.sunriseEnd,
			},
			ical.Event{
				UID:         "sunset-" + day + "@suncal",
				Summary:     "Sunset",
				Description: "Sunset at " + localClock(times.sunset, tzOffsetHours),
				Start:       times.sunsetStart,
				End:         times.dusk,
			},
		)
	}

	return events
}

// computeDay calculates the six sun instants for a given date.
func computeDay(observer astral.Observer, date time.Time) (dayTimes, error) {
	var t dayTimes
	var err error

	if t.dawn, err = astral.Dawn(observer, date, astral.DepressionCivil); err != nil {
		return dayTimes{}, fmt.Errorf("failed to calculate civil dawn: %w", err)
	}
	if t.sunrise, err = astral.Sunrise(observer, date); err != nil {
		return dayTimes{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}
	if t.sunriseEnd, err = astral.Dawn(observer, date, sunriseEndDepression); err != nil {
		return dayTimes{}, fmt.Errorf("failed to calculate sunrise end: %w", err)
	}
	if t.sunsetStart, err = astral.Dusk(observer, date, sunriseEndDepression); err != nil {
		return dayTimes{}, fmt.Errorf("failed to calculate sunset start: %w", err)
	}
	if t.sunset, err = astral.Sunset(observer, date); err != nil {
		return dayTimes{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}
	if t.dusk, err = astral.Dusk(observer, date, astral.DepressionCivil); err != nil {
		return dayTimes{}, fmt.Errorf("failed to calculate civil dusk: %w", err)
	}

	return t, nil
}

// localClock renders a UTC instant as a simple clock string in the fixed
// numeric offset the caller asked for.
func localClock(t time.Time, tzOffsetHours float64) string {
	return t.UTC().Add(time.Duration(tzOffsetHours * float64(time.Hour))).Format("3:04 PM")
}
