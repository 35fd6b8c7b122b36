package nats

import "testing"

func TestSubjectRun(t *testing.T) {
	if got := SubjectRun("abc-123"); got != "chainsim.run.abc-123" {
		t.Errorf("unexpected subject: %s", got)
	}
}
