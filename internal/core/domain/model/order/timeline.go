package order

import "time"

// TimelineEntry is one record of the order's append-only audit log: which
// step ran, the status it produced, when, and by whom. Notes carry
// auxiliary detail such as rejection reasons and notification dispatch
// summaries.
type TimelineEntry struct {
	Step   EventKind
	Status Status
	At     time.Time
	Actor  string
	Notes  string
}

// Timeline returns a copy of the order's audit log, oldest first.
func (o *Order) Timeline() []TimelineEntry {
	entries := make([]TimelineEntry, len(o.timeline))
	copy(entries, o.timeline)
	return entries
}

// HasStep reports whether a step already completed on this order. The
// timeline, not the mutable status, is the source of truth for decisions
// that depend on history, such as who hears about a cancellation.
func (o *Order) HasStep(kind EventKind) bool {
	for _, e := range o.timeline {
		if e.Step == kind {
			return true
		}
	}
	return false
}

// AttachNote appends note text to the most recent timeline entry for the
// given step. Used to record notification dispatch outcomes against the
// transition that triggered them. Attaching to an absent step is a no-op.
func (o *Order) AttachNote(kind EventKind, note string) {
	for i := len(o.timeline) - 1; i >= 0; i-- {
		if o.timeline[i].Step == kind {
			if o.timeline[i].Notes == "" {
				o.timeline[i].Notes = note
			} else {
				o.timeline[i].Notes += "; " + note
			}
			return
		}
	}
}

func (o *Order) appendTimeline(entry TimelineEntry) {
	o.timeline = append(o.timeline, entry)
}
