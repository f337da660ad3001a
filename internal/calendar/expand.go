package calendar

import (
	"time"

	"github.com/teambition/rrule-go"

	"timereport/internal/logger"
)

// maxOccurrencesPerEvent caps expansion of a single recurring event so a
// malformed rule cannot produce an unbounded occurrence list.
const maxOccurrencesPerEvent = 1000

// overrideSlot pairs a RECURRENCE-ID override with whether a base
// occurrence has consumed it.
type overrideSlot struct {
	pe   parsedEvent
	used bool
}

// expandOccurrences turns parsed VEVENTs into concrete events overlapping
// the half-open range [start, end). Non-recurring events pass through with
// an overlap check; RRULE events are expanded with their EXDATEs applied.
//
// A VEVENT carrying RECURRENCE-ID overrides exactly one occurrence of the
// base event sharing its UID: the base slot is replaced by the override,
// never emitted alongside it. An override whose original slot lies outside
// the range stands alone when its new time falls inside it.
func expandOccurrences(parsed []parsedEvent, start, end time.Time) []Event {
	overridesByUID := make(map[string][]*overrideSlot)
	var allOverrides []*overrideSlot
	for _, pe := range parsed {
		if pe.recurrenceID != nil && pe.event.UID != "" {
			slot := &overrideSlot{pe: pe}
			overridesByUID[pe.event.UID] = append(overridesByUID[pe.event.UID], slot)
			allOverrides = append(allOverrides, slot)
		}
	}

	var out []Event
	for _, pe := range parsed {
		if pe.recurrenceID != nil && pe.event.UID != "" {
			continue
		}

		overrides := overridesByUID[pe.event.UID]

		if pe.rawRRule == "" {
			ev := pe.event
			if o := takeOverride(overrides, ev.Start); o != nil {
				ev = o.event
			}
			if overlaps(ev.Start, ev.End, start, end) {
				out = append(out, ev)
			}
			continue
		}

		out = append(out, expandRecurring(pe, overrides, start, end)...)
	}

	// Whatever override no base occurrence consumed was moved into the
	// range from an instant outside it.
	for _, slot := range allOverrides {
		if !slot.used && overlaps(slot.pe.event.Start, slot.pe.event.End, start, end) {
			out = append(out, slot.pe.event)
		}
	}

	return out
}

// takeOverride finds and consumes the override replacing the occurrence
// at occStart. RECURRENCE-ID comparison is by instant, so the override's
// zone does not have to match the base event's.
func takeOverride(overrides []*overrideSlot, occStart time.Time) *parsedEvent {
	for _, slot := range overrides {
		if slot.pe.recurrenceID.Equal(occStart) {
			slot.used = true
			return &slot.pe
		}
	}
	return nil
}

func expandRecurring(pe parsedEvent, overrides []*overrideSlot, start, end time.Time) []Event {
	var out []Event

	r, err := rrule.StrToRRule(pe.rawRRule)
	if err != nil {
		logger.GetLogger().Warnf("Skipping event %s with invalid RRULE %q: %v", pe.event.UID, pe.rawRRule, err)
		return out
	}
	r.DTStart(pe.event.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range pe.exDates {
		set.ExDate(ex.In(pe.event.Start.Location()))
	}

	// Between is inclusive on both ends; the window end is exclusive, so
	// query up to just before it.
	rangeStart := start.In(pe.event.Start.Location())
	rangeEnd := end.In(pe.event.Start.Location()).Add(-time.Nanosecond)

	occStarts := set.Between(rangeStart, rangeEnd, true)
	if len(occStarts) > maxOccurrencesPerEvent {
		logger.GetLogger().Warnf("Truncating occurrences of event %s at %d", pe.event.UID, maxOccurrencesPerEvent)
		occStarts = occStarts[:maxOccurrencesPerEvent]
	}

	duration := pe.event.End.Sub(pe.event.Start)
	for _, occStart := range occStarts {
		ev := pe.event
		ev.Start = occStart
		ev.End = occStart.Add(duration)

		if o := takeOverride(overrides, occStart); o != nil {
			ev = o.event
			if !overlaps(ev.Start, ev.End, start, end) {
				// Rescheduled out of the range entirely.
				continue
			}
		}

		out = append(out, ev)
	}

	return out
}

// overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd).
// Zero-length events are kept when their instant falls inside the range;
// the classifier decides what to do with them.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aStart.Equal(aEnd) {
		return !aStart.Before(bStart) && aStart.Before(bEnd)
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
