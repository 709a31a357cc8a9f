package privilege

import "testing"

func TestCurrent(t *testing.T) {
	guard := Current()
	if guard == nil {
		t.Fatal("Current() returned nil guard")
	}
	if got, want := guard(), IsElevated(); got != want {
		t.Errorf("Current()() = %v, want %v", got, want)
	}
}
