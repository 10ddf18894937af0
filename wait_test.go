package watch

import "testing"

func TestWaitReady(t *testing.T) {
	for _, tc := range []struct {
		readyAfter int
		limit      int
		err        error
	}{
		{0, 10, nil},
		{9, 10, nil},
		{10, 10, ErrTimeout},
		{5, 0, ErrTimeout},
	} {
		polls := 0
		err := waitReady(func() bool {
			polls++
			return polls > tc.readyAfter
		}, tc.limit)
		if err != tc.err {
			t.Errorf("ready after %d polls, limit %d: expected %v, got %v", tc.readyAfter, tc.limit, tc.err, err)
		}
		if polls > tc.limit {
			t.Errorf("ready after %d polls, limit %d: polled %d times", tc.readyAfter, tc.limit, polls)
		}
	}
}
