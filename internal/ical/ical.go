// Package ical serializes a flat list of events into an iCalendar document.
package ical

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// refreshHint tells feed readers how often to re-poll, matching the cache
// lifetime of the forecast data behind the feed.
const refreshHint = "PT30M"

// Event is one calendar entry. Start and End are UTC instants.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Render serializes events into VCALENDAR bytes. now is used as the DTSTAMP
// of every component so identical inputs produce identical documents.
func Render(events []Event, now time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//suncal//sun-cal//EN")
	cal.SetName("Sunrise, Sunset & UV")
	cal.SetRefreshInterval(refreshHint)
	cal.SetXPublishedTTL(refreshHint)

	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(e.Start.UTC())
		ev.SetEndAt(e.End.UTC())
		ev.SetSummary(e.Summary)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
	}

	return []byte(cal.Serialize())
}
