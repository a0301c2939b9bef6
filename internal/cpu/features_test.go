package cpu

import (
	"runtime"
	"testing"
)

func TestDetectFeaturesArchitecture(t *testing.T) {
	t.Parallel()

	f := DetectFeatures()
	if f.Architecture != runtime.GOARCH {
		t.Fatalf("Architecture = %q, want %q", f.Architecture, runtime.GOARCH)
	}

	if DetectFeatures() != f {
		t.Error("DetectFeatures not stable across calls")
	}
}

func TestFeaturesString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		f    Features
		want string
	}{
		{Features{Architecture: "wasm"}, "wasm"},
		{Features{Architecture: "arm64", HasNEON: true}, "arm64(neon)"},
		{Features{Architecture: "amd64", HasSSE2: true, HasAVX2: true, HasFMA: true}, "amd64(sse2,avx2,fma)"},
	}

	for _, tc := range cases {
		if got := tc.f.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
