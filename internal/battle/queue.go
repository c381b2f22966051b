package battle

import "container/list"

// Queue is the FIFO set of connections waiting for a partner. An ID appears
// at most once.
type Queue struct {
	order *list.List
	index map[string]*list.Element
}

func NewQueue() *Queue {
	return &Queue{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

func (q *Queue) Len() int { return q.order.Len() }

func (q *Queue) Contains(connID string) bool {
	_, ok := q.index[connID]
	return ok
}

// Push appends connID. It reports false if connID was already waiting.
func (q *Queue) Push(connID string) bool {
	if q.Contains(connID) {
		return false
	}
	q.index[connID] = q.order.PushBack(connID)
	return true
}

// PushFront puts connID at the head, keeping its place ahead of later
// arrivals. Used to return survivors of a failed pairing.
func (q *Queue) PushFront(connID string) bool {
	if q.Contains(connID) {
		return false
	}
	q.index[connID] = q.order.PushFront(connID)
	return true
}

// Remove deletes connID and reports whether it was present.
func (q *Queue) Remove(connID string) bool {
	el, ok := q.index[connID]
	if !ok {
		return false
	}
	q.order.Remove(el)
	delete(q.index, connID)
	return true
}

// PopPair removes the two oldest entries.
func (q *Queue) PopPair() (first, second string, ok bool) {
	if q.order.Len() < 2 {
		return "", "", false
	}
	first = q.pop()
	second = q.pop()
	return first, second, true
}

func (q *Queue) pop() string {
	el := q.order.Front()
	connID := q.order.Remove(el).(string)
	delete(q.index, connID)
	return connID
}

// Snapshot returns the waiting IDs, oldest first.
func (q *Queue) Snapshot() []string {
	ids := make([]string, 0, q.order.Len())
	for el := q.order.Front(); el != nil; el = el.Next() {
		ids = append(ids, el.Value.(string))
	}
	return ids
}
