package gpu

import "github.com/cockroachdb/errors"

var (
	// ErrNoBackend is returned when no backend is registered under the
	// requested name.
	ErrNoBackend = errors.New("algoeig/gpu: no backend registered")

	// ErrBackendUnavailable is returned when the backend is registered but not available
	// on the current system (e.g., no device, driver missing).
	ErrBackendUnavailable = errors.New("algoeig/gpu: backend unavailable")

	// ErrInvalidDevice is returned for malformed device strings and
	// out-of-range device indices.
	ErrInvalidDevice = errors.New("algoeig/gpu: invalid device")

	// ErrNotImplemented is returned by stubbed operations.
	ErrNotImplemented = errors.New("algoeig/gpu: not implemented")

	// ErrInvalidLength is returned for invalid buffer or matrix sizes.
	ErrInvalidLength = errors.New("algoeig/gpu: invalid length")

	// ErrNilBuffer is returned when a nil buffer is passed to a solver.
	ErrNilBuffer = errors.New("algoeig/gpu: nil buffer")

	// ErrLengthMismatch is returned when host slices or buffers are shorter
	// than required.
	ErrLengthMismatch = errors.New("algoeig/gpu: length mismatch")

	// ErrTypeMismatch is returned when a host slice does not match the
	// buffer precision, or a buffer belongs to another backend.
	ErrTypeMismatch = errors.New("algoeig/gpu: type mismatch")

	// ErrClosed is returned when using a closed buffer or solver.
	ErrClosed = errors.New("algoeig/gpu: use of closed resource")
)
