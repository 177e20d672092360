package world

import "sort"

// EventKind enumerates the world events the event queue schedules (spec §6
// "Outbound action events" / world events).
type EventKind int

const (
	EventNone EventKind = iota
	EventSpawnResident
	EventSpawnTestCar
	EventCreateRouteFromParkingSpot
	EventCreateRouteFromNode
	EventBeginCarParking
)

func (k EventKind) String() string {
	switch k {
	case EventSpawnResident:
		return "SpawnResident"
	case EventSpawnTestCar:
		return "SpawnTestCar"
	case EventCreateRouteFromParkingSpot:
		return "CreateRouteFromParkingSpot"
	case EventCreateRouteFromNode:
		return "CreateRouteFromNode"
	case EventBeginCarParking:
		return "BeginCarParking"
	default:
		return "None"
	}
}

// maxEventRetries aborts an event that never becomes ready (spec §4.4
// "a retry cap aborts").
const maxEventRetries = 5

// Event is one future-timed unit of work.
type Event struct {
	Kind        EventKind
	TriggerAt   float64
	RetryAmount int
	Payload     any
}

// backoff computes the delay before retrying a not-yet-ready event; it
// grows with the retry count but is capped so a stuck event doesn't push
// itself arbitrarily far into the future.
func backoff(retry int) float64 {
	d := 0.25 * float64(retry+1)
	if d > 5 {
		return 5
	}
	return d
}

// EventQueue holds future-timed events ordered by TriggerAt (spec §4.4).
type EventQueue struct {
	events []Event
}

// Enqueue schedules e, keeping the queue sorted by TriggerAt.
func (q *EventQueue) Enqueue(e Event) {
	q.events = append(q.events, e)
	sort.SliceStable(q.events, func(i, j int) bool { return q.events[i].TriggerAt < q.events[j].TriggerAt })
}

// Drain pops every event with TriggerAt <= now, in insertion order for ties
// (guaranteed by SliceStable above), and hands each to process. If process
// reports the event wasn't ready, it's re-enqueued with an incremented
// retry count and backoff delay, up to maxEventRetries.
func (q *EventQueue) Drain(now float64, process func(Event) (ready bool)) {
	var ready []Event
	var rest []Event
	for _, e := range q.events {
		if e.TriggerAt <= now {
			ready = append(ready, e)
		} else {
			rest = append(rest, e)
		}
	}
	q.events = rest
	for _, e := range ready {
		if process(e) {
			continue
		}
		if e.RetryAmount >= maxEventRetries {
			continue // aborted
		}
		e.RetryAmount++
		e.TriggerAt = now + backoff(e.RetryAmount)
		q.Enqueue(e)
	}
}

// Len reports how many events are currently scheduled.
func (q *EventQueue) Len() int { return len(q.events) }
