package updater

import "testing"

func TestNoopCheckReportsNotAvailable(t *testing.T) {
	var seen []State
	n := &Noop{}
	n.Subscribe(func(notification Notification) {
		seen = append(seen, notification.State)
	})

	n.Check()

	want := []State{StateChecking, StateNotAvailable}
	if len(seen) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestNoopWithoutSubscriberIsSafe(t *testing.T) {
	n := &Noop{}
	n.Check()
	n.StartDownload()
	n.Install()
}
