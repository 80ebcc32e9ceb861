package eventstore

import (
	"slices"
	"strings"
	"time"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter holds the criteria for Query. All set criteria must match (AND), event types match ANY of the given types.
type Filter struct {
	eventTypes          []FilterEventTypeString
	predicates          []FilterPredicate
	occurredFrom        time.Time
	occurredUntil       time.Time
	afterSequenceNumber SequenceNumberUint
	limit               uint
}

func (f Filter) EventTypes() []FilterEventTypeString {
	return f.eventTypes
}

func (f Filter) Predicates() []FilterPredicate {
	return f.predicates
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

func (f Filter) AfterSequenceNumber() SequenceNumberUint {
	return f.afterSequenceNumber
}

// Limit is the maximum number of events to return, zero means unlimited.
func (f Filter) Limit() uint {
	return f.limit
}

// IsEmpty reports whether the filter matches every event in the journal.
func (f Filter) IsEmpty() bool {
	return len(f.eventTypes) == 0 &&
		len(f.predicates) == 0 &&
		f.occurredFrom.IsZero() &&
		f.occurredUntil.IsZero() &&
		f.afterSequenceNumber == 0
}

/***** FilterPredicate *****/

// FilterPredicate matches a top-level payload field against a string value.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

// P builds a FilterPredicate.
func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter to be translated into an engine-specific query.
//
// Each method returns a copy, so a partially built filter can be reused as a base:
//
//	base := BuildEventFilter().WithPredicates(P("CustomerID", id))
//	games := base.OfEventTypes(core.GamePlayedEventType).Finalize()
//	orders := base.OfEventTypes(core.OrderPlacedEventType).Finalize()
type FilterBuilder struct {
	filter Filter
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize().
func BuildEventFilter() FilterBuilder {
	return FilterBuilder{}
}

// OfEventTypes adds event types; an event matches if it has ANY of them.
//
// It sanitizes the input:
//   - removing empty EventTypes ("")
//   - sorting the EventTypes
//   - removing duplicate EventTypes
func (fb FilterBuilder) OfEventTypes(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterBuilder {
	all := slices.Concat(fb.filter.eventTypes, []FilterEventTypeString{eventType}, eventTypes)
	all = slices.DeleteFunc(all, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(all)
	fb.filter.eventTypes = slices.Clip(slices.Compact(all))

	return fb
}

// WithPredicates adds payload predicates; an event matches if ALL of them match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s) by key and value
//   - removing duplicate FilterPredicate(s)
func (fb FilterBuilder) WithPredicates(predicate FilterPredicate, predicates ...FilterPredicate) FilterBuilder {
	all := slices.Concat(fb.filter.predicates, []FilterPredicate{predicate}, predicates)
	all = slices.DeleteFunc(all, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(all, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})
	fb.filter.predicates = slices.Clip(slices.Compact(all))

	return fb
}

// OccurredFrom restricts the filter to events that occurred at or after t.
func (fb FilterBuilder) OccurredFrom(t time.Time) FilterBuilder {
	fb.filter.occurredFrom = t

	return fb
}

// OccurredUntil restricts the filter to events that occurred at or before t.
func (fb FilterBuilder) OccurredUntil(t time.Time) FilterBuilder {
	fb.filter.occurredUntil = t

	return fb
}

// AfterSequenceNumber restricts the filter to events appended after the given sequence number.
func (fb FilterBuilder) AfterSequenceNumber(sequenceNumber SequenceNumberUint) FilterBuilder {
	fb.filter.afterSequenceNumber = sequenceNumber

	return fb
}

// Limit caps the number of returned events.
func (fb FilterBuilder) Limit(limit uint) FilterBuilder {
	fb.filter.limit = limit

	return fb
}

// Finalize returns the Filter.
func (fb FilterBuilder) Finalize() Filter {
	return fb.filter
}
