package learning

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to MeetingStatus
		want     bool
	}{
		{MeetingScheduled, MeetingLive, true},
		{MeetingScheduled, MeetingCancelled, true},
		{MeetingScheduled, MeetingCompleted, false},
		{MeetingLive, MeetingCompleted, true},
		{MeetingCompleted, MeetingLive, false},
		{MeetingCancelled, MeetingScheduled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s -> %s): want=%v got=%v", tc.from, tc.to, tc.want, got)
		}
	}
}
