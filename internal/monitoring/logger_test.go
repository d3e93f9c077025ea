package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("built %d parts", 3)
	if got != "built 3 parts" {
		t.Errorf("got %q, want %q", got, "built 3 parts")
	}

	got = ""
	SetLogger(nil)
	Logf("muted")
	if got != "" {
		t.Errorf("nil logger should mute output, got %q", got)
	}
}
