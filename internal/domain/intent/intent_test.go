package intent

import "testing"

func TestDetectDestination(t *testing.T) {
	c := NewKeyword()

	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"我下週要去日本出差", "日本", true},
		{"I'm flying to Japan next week", "日本", true},
		{"去曼谷玩五天", "泰國", true},
		{"planning a trip to Seoul", "韓國", true},
		{"我要查帳單", "", false},
		{"hello", "", false},
	}

	for _, tc := range cases {
		got, ok := c.DetectDestination(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Errorf("DetectDestination(%q) = (%q, %v), want (%q, %v)",
				tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDetectDestinationTieBreaksByListOrder(t *testing.T) {
	c := NewKeyword()

	// Korea appears first in the text, but Japan is earlier in the fixed list.
	got, ok := c.DetectDestination("韓國還是日本好呢")
	if !ok || got != "日本" {
		t.Errorf("expected list-order winner 日本, got %q", got)
	}
}

func TestIsApproval(t *testing.T) {
	c := NewKeyword()

	for _, text := range []string{"可以", "好的，幫我查", "ok go ahead", "yes please", "好"} {
		if !c.IsApproval(text) {
			t.Errorf("IsApproval(%q) = false, want true", text)
		}
	}
	for _, text := range []string{"先不要", "等一下", "no thanks"} {
		if c.IsApproval(text) {
			t.Errorf("IsApproval(%q) = true, want false", text)
		}
	}
}

// Substring matching cannot see negation. This pins the documented
// limitation so nobody "fixes" it silently.
func TestIsApprovalNegationLimitation(t *testing.T) {
	c := NewKeyword()
	if !c.IsApproval("不可以") {
		t.Error("substring heuristic is expected to (wrongly) accept 不可以")
	}
}

func TestIsConfirmation(t *testing.T) {
	c := NewKeyword()

	for _, text := range []string{"好", "對", "是的", "yes", "correct"} {
		if !c.IsConfirmation(text) {
			t.Errorf("IsConfirmation(%q) = false, want true", text)
		}
	}
	if c.IsConfirmation("我再想想") {
		t.Error("IsConfirmation(我再想想) should be false")
	}
}
