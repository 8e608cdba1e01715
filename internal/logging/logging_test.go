package logging

import "testing"

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{Level: "info"}, false},
		{"debug console", Options{Level: "debug", Format: "console"}, false},
		{"json", Options{Level: "WARN", Format: "json"}, false},
		{"bad level", Options{Level: "loud"}, true},
		{"bad format", Options{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("New() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			logger.Debug("constructed")
		})
	}
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	logger, err := New(Options{Level: "warn"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug should be disabled at warn level")
	}
	if !logger.Core().Enabled(1) {
		t.Error("warn should be enabled at warn level")
	}
}
