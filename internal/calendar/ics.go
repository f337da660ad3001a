package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"timereport/internal/logger"
)

// ICSSource reads events from a single ICS feed, either an http(s) URL or
// a local file. It normalizes every VEVENT into the canonical Event type:
// STATUS becomes the Cancelled flag, and the owner's ATTENDEE PARTSTAT or
// ORGANIZER entry becomes the canonical ResponseStatus.
type ICSSource struct {
	source     string
	ownerEmail string
	client     *http.Client
}

func NewICSSource(source, ownerEmail string, timeout time.Duration) *ICSSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ICSSource{
		source:     source,
		ownerEmail: strings.ToLower(strings.TrimSpace(ownerEmail)),
		client:     &http.Client{Timeout: timeout},
	}
}

// Events returns the events overlapping [start, end), ordered by start
// time. Recurring events are expanded into concrete occurrences within
// the range.
func (s *ICSSource) Events(start, end time.Time) ([]Event, error) {
	body, err := s.fetch()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	parsed, err := s.parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	events := expandOccurrences(parsed, start, end)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	logger.GetLogger().Infof("Calendar fetch completed: %d events in window %s to %s",
		len(events), start.Format("2006-01-02"), end.Format("2006-01-02"))

	return events, nil
}

func (s *ICSSource) fetch() ([]byte, error) {
	if s.source == "" {
		return nil, errors.New("calendar source is not configured")
	}

	if strings.HasPrefix(s.source, "http://") || strings.HasPrefix(s.source, "https://") {
		resp, err := s.client.Get(s.source)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}

	return os.ReadFile(s.source)
}

// parsedEvent is the intermediate representation of one VEVENT before
// recurrence expansion.
type parsedEvent struct {
	event    Event
	rawRRule string
	exDates  []time.Time
	// recurrenceID is set when this VEVENT overrides one occurrence of a
	// recurring event: it holds the original instant of the occurrence
	// being replaced.
	recurrenceID *time.Time
}

func (s *ICSSource) parse(body []byte) ([]parsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var parsed []parsedEvent
	for _, ve := range cal.Events() {
		pe, perr := s.parseVEvent(ve)
		if perr != nil {
			// Skip this event but keep parsing the rest
			logger.GetLogger().Warnf("Skipping unparseable VEVENT: %v", perr)
			continue
		}
		parsed = append(parsed, pe)
	}

	return parsed, nil
}

func (s *ICSSource) parseVEvent(ve *ical.VEvent) (parsedEvent, error) {
	var out parsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.event.UID = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.event.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.event.Description = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("missing or invalid DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		// DTEND is optional; a missing end means a zero-length event
		end = start
	}
	out.event.Start = start
	out.event.End = end

	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		out.event.Cancelled = strings.EqualFold(strings.TrimSpace(p.Value), "CANCELLED")
	}

	if p := ve.GetProperty(ical.ComponentPropertyOrganizer); p != nil {
		if addr := stripMailto(p.Value); addr != "" {
			out.event.Creators = append(out.event.Creators, addr)
		}
	}

	out.event.Response = StatusUnknown
	for _, p := range ve.GetProperties(ical.ComponentPropertyAttendee) {
		addr := stripMailto(p.Value)
		if addr == "" {
			continue
		}
		out.event.Guests = append(out.event.Guests, addr)

		if s.ownerEmail != "" && strings.EqualFold(addr, s.ownerEmail) {
			partStat := ""
			if vs, ok := p.ICalParameters["PARTSTAT"]; ok && len(vs) > 0 {
				partStat = vs[0]
			}
			out.event.Response = responseFromPartStat(partStat)
		}
	}

	// The organizer's own events count as owned regardless of PARTSTAT.
	if s.ownerEmail != "" {
		for _, creator := range out.event.Creators {
			if strings.EqualFold(creator, s.ownerEmail) {
				out.event.Response = StatusOwner
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, p.ICalParameters); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := parseICSTime(p.Value, p.ICalParameters); err == nil {
			out.recurrenceID = &t
		}
	}

	return out, nil
}

// responseFromPartStat maps an ICS PARTSTAT value onto the canonical
// response status.
func responseFromPartStat(partStat string) ResponseStatus {
	switch strings.ToUpper(strings.TrimSpace(partStat)) {
	case "ACCEPTED":
		return StatusYes
	case "DECLINED":
		return StatusNo
	case "TENTATIVE":
		return StatusMaybe
	default:
		return StatusUnknown
	}
}

func stripMailto(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(strings.ToLower(v), "mailto:") {
		v = v[len("mailto:"):]
	}
	return strings.TrimSpace(v)
}

// parseICSTime parses a basic ICS date/date-time string, as found in
// EXDATE and RECURRENCE-ID values. Non-UTC forms are resolved in the
// property's TZID zone when one is given, otherwise in local time.
func parseICSTime(v string, params map[string][]string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	loc := time.Local
	if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
		if l, err := time.LoadLocation(tzs[0]); err == nil {
			loc = l
		}
	}

	// UTC form, e.g. 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}

	// Zoned or local date-time, e.g. 20250101T090000
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}

	// Date-only, e.g. 20250101
	return time.ParseInLocation("20060102", v, loc)
}
