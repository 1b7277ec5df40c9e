package notify

import (
	"context"
	"testing"
)

func TestNopNotifier(t *testing.T) {
	var n Nop
	if n.Available() {
		t.Error("Nop should report unavailable")
	}
	if err := n.Share(context.Background(), "Setoran Harian"); err != nil {
		t.Errorf("Nop.Share should never fail, got %v", err)
	}
}
