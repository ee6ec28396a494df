package mqtt

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFanControlTopic(t *testing.T) {
	if got := FanControlTopic("Frig1"); got != "Frig1/fanControl" {
		t.Errorf("FanControlTopic(Frig1) = %q", got)
	}
}

func TestFanCommandsWhileDisconnectedAreNoOps(t *testing.T) {
	svc, _, _, _, metrics := newTestService(t)

	// No client was ever started; both commands must degrade quietly
	svc.Activate(FanControlTopic("Frig1"))
	svc.Deactivate(FanControlTopic("Frig1"))

	if got := testutil.ToFloat64(metrics.FanCommands.WithLabelValues(CommandStart)); got != 0 {
		t.Errorf("START counted while disconnected: %v", got)
	}
	if got := testutil.ToFloat64(metrics.FanCommands.WithLabelValues(CommandStop)); got != 0 {
		t.Errorf("STOP counted while disconnected: %v", got)
	}
}
