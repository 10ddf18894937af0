package watch

// eventQueue is a ring buffer of channel indices. It is written only by the
// interrupt handler (push) and read only by Input.Drain.
//
// head and tail are free running counters: the number of stored entries is
// tail-head and the array index is the counter modulo NumChannels. Because
// 256 is a multiple of NumChannels the modulo stays consistent when the
// counters wrap, every slot of buf is usable, and no index can ever leave the
// array.
type eventQueue struct {
	buf  [NumChannels]uint8
	head uint8
	tail uint8
}

// push appends a channel index. It returns false, leaving the queue
// unchanged, when the queue is full.
func (q *eventQueue) push(ch uint8) bool {
	if q.tail-q.head >= NumChannels {
		return false
	}
	q.buf[q.tail%NumChannels] = ch
	q.tail++
	return true
}

// at returns the entry stored at the given counter value.
func (q *eventQueue) at(counter uint8) uint8 {
	return q.buf[counter%NumChannels]
}

func (q *eventQueue) len() int {
	return int(q.tail - q.head)
}
