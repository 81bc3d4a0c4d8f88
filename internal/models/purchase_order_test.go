package models

import "testing"

func TestValidPriority(t *testing.T) {
	for _, p := range []POPriority{POPriorityLow, POPriorityMedium, POPriorityHigh, POPriorityUrgent} {
		if !ValidPriority(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range []POPriority{"", "low", "ASAP", "Critical"} {
		if ValidPriority(p) {
			t.Errorf("expected %q to be rejected", p)
		}
	}
}
