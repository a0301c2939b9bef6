// Package cpu reports host CPU capabilities for the CPU-backed device.
package cpu

import (
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Features describes the SIMD extensions available to gonum's BLAS kernels
// on the current host.
type Features struct {
	HasSSE2   bool
	HasSSE41  bool
	HasAVX    bool
	HasAVX2   bool
	HasFMA    bool
	HasAVX512 bool
	HasNEON   bool

	Architecture string
}

var (
	detectOnce sync.Once
	detected   Features
)

// DetectFeatures returns the host features. Detection runs once per process.
func DetectFeatures() Features {
	detectOnce.Do(func() {
		detected = detectFeaturesImpl()
	})

	return detected
}

func detectFeaturesImpl() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasSSE41:     cpu.X86.HasSSE41,
		HasAVX:       cpu.X86.HasAVX,
		HasAVX2:      cpu.X86.HasAVX2,
		HasFMA:       cpu.X86.HasFMA,
		HasAVX512:    cpu.X86.HasAVX512F,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// List returns the names of the available extensions, widest last.
func (f Features) List() []string {
	var out []string

	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}

	add(f.HasSSE2, "sse2")
	add(f.HasSSE41, "sse4.1")
	add(f.HasAVX, "avx")
	add(f.HasAVX2, "avx2")
	add(f.HasFMA, "fma")
	add(f.HasAVX512, "avx512f")
	add(f.HasNEON, "neon")

	return out
}

// String formats the features as "arch(ext,ext,...)", or just the
// architecture when no extension is detected.
func (f Features) String() string {
	list := f.List()
	if len(list) == 0 {
		return f.Architecture
	}

	return f.Architecture + "(" + strings.Join(list, ",") + ")"
}
