package treepatch

import (
	"encoding/json"
	"testing"
)

func TestParseConflictResolution(t *testing.T) {
	cases := []struct {
		in     string
		expect ConflictResolution
		err    bool
	}{
		{"error", ConflictError, false},
		{"Retain", ConflictRetain, false},
		{" REPLACE ", ConflictReplace, false},
		{"merge", ConflictError, true},
		{"", ConflictError, true},
	}

	for _, c := range cases {
		got, err := ParseConflictResolution(c.in)
		if (err != nil) != c.err {
			t.Errorf("%q: error mismatch. expected error: %t, got: %v", c.in, c.err, err)
		}
		if got != c.expect {
			t.Errorf("%q: want %s, got %s", c.in, c.expect, got)
		}
	}
}

func TestConflictResolutionText(t *testing.T) {
	var cfg struct {
		Resolution ConflictResolution `json:"resolution"`
	}
	if err := json.Unmarshal([]byte(`{"resolution":"replace"}`), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Resolution != ConflictReplace {
		t.Errorf("want %s, got %s", ConflictReplace, cfg.Resolution)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"resolution":"replace"}` {
		t.Errorf("unexpected encoding: %s", data)
	}

	if err := json.Unmarshal([]byte(`{"resolution":"nope"}`), &cfg); err == nil {
		t.Error("expected unknown resolution to fail")
	}
	if _, err := ConflictResolution(7).MarshalText(); err == nil {
		t.Error("expected invalid resolution to fail")
	}
	if ConflictResolution(7).String() != "ConflictResolution(7)" {
		t.Errorf("unexpected name %q", ConflictResolution(7).String())
	}
}
