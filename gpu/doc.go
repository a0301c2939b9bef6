// Package gpu provides the device layer of the eigensolver benchmark.
//
// Backends register under a name and are opened with a device string such
// as "cpu", "mock:0" or "cuda:0". A Context owns device buffers, streams and
// solver implementations; Solver ties a solver implementation to a stream
// so the driver can synchronize around each timed call.
//
// The "mock" backend (alias "cpu") keeps buffers in host memory and runs
// the solvers of package algoeig. The "cuda" and "opencl" backends are
// stubs enabled by build tags that report ErrBackendUnavailable.
package gpu
