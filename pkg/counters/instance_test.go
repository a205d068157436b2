package counters

import "testing"

func TestPIDTokenBoundary(t *testing.T) {
	token := PIDToken(123)
	if token != "pid_123_" {
		t.Fatalf("unexpected token: %q", token)
	}
	if OwnedBy("pid_1234_luid_0x0_phys_0_eng_0_engtype_3D", token) {
		t.Fatalf("pid_123 token must not match pid_1234 instance")
	}
	if !OwnedBy("pid_123_luid_0x0_phys_0_eng_0_engtype_3D", token) {
		t.Fatalf("expected token to match its own instance")
	}
}

func TestEngineType(t *testing.T) {
	cases := []struct {
		name     string
		instance string
		engine   string
		ok       bool
	}{
		{"threeD", "pid_88_luid_0x0_phys_0_eng_0_engtype_3D", "3D", true},
		{"copy", "pid_88_luid_0x0_phys_0_eng_4_engtype_Copy", "Copy", true},
		{"videoDecode", "pid_88_engtype_VideoDecode", "VideoDecode", true},
		{"missingMarker", "pid_88_luid_0x0_phys_0_eng_0", "", false},
		{"emptySuffix", "pid_88_eng_0_engtype_", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		engine, ok := EngineType(tc.instance)
		if engine != tc.engine || ok != tc.ok {
			t.Fatalf("%s: got (%q, %t), want (%q, %t)", tc.name, engine, ok, tc.engine, tc.ok)
		}
	}
}

func TestCoreIndex(t *testing.T) {
	cases := []struct {
		name     string
		instance string
		index    int
		ok       bool
	}{
		{"coreZero", "0,0", 0, true},
		{"coreEleven", "0,11", 11, true},
		{"secondGroup", "1,3", 3, true},
		{"total", "0,_Total", 0, false},
		{"noComma", "7", 0, false},
		{"garbage", "0,abc", 0, false},
		{"negative", "0,-1", 0, false},
		{"empty", "", 0, false},
	}
	for _, tc := range cases {
		idx, ok := CoreIndex(tc.instance)
		if idx != tc.index || ok != tc.ok {
			t.Fatalf("%s: got (%d, %t), want (%d, %t)", tc.name, idx, ok, tc.index, tc.ok)
		}
	}
}

func TestProcessorTimePath(t *testing.T) {
	got := ProcessorTimePath(`\Process(app#1)\ID Process`)
	want := `\Process(app#1)\% Processor Time`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := ProcessorTimePath("no separator"); got != "" {
		t.Fatalf("expected empty path for malformed input, got %q", got)
	}
}

func TestProcessIDWildcard(t *testing.T) {
	got := ProcessIDWildcard("app")
	if got != `\Process(app*)\ID Process` {
		t.Fatalf("unexpected wildcard path: %q", got)
	}
}
