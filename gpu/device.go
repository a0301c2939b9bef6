package gpu

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// DeviceSpec is a parsed device string.
type DeviceSpec struct {
	Backend string
	Index   int
}

func (d DeviceSpec) String() string {
	return d.Backend + ":" + strconv.Itoa(d.Index)
}

// ParseDevice parses a device string of the form "name" or "name:index",
// e.g. "cpu", "mock:0" or "cuda:1". The index defaults to 0.
func ParseDevice(s string) (DeviceSpec, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	name, idx, hasIndex := strings.Cut(s, ":")
	if name == "" {
		return DeviceSpec{}, errors.WithHint(
			errors.Wrapf(ErrInvalidDevice, "device %q", s),
			"devices look like cpu, mock:0 or cuda:0")
	}

	spec := DeviceSpec{Backend: name}
	if !hasIndex {
		return spec, nil
	}

	index, err := strconv.Atoi(idx)
	if err != nil || index < 0 {
		return DeviceSpec{}, errors.WithHint(
			errors.Wrapf(ErrInvalidDevice, "device %q: bad index %q", s, idx),
			"the device index must be a non-negative integer")
	}

	spec.Index = index

	return spec, nil
}

// Open parses device, looks up its backend and creates a context on the
// selected device. The caller closes the returned context.
func Open(device string) (Context, error) {
	spec, err := ParseDevice(device)
	if err != nil {
		return nil, err
	}

	backend, ok := getBackend(spec.Backend)
	if !ok {
		return nil, errors.WithHintf(
			errors.Wrapf(ErrNoBackend, "device %q", device),
			"registered backends: %s", strings.Join(BackendNames(), ", "))
	}

	if !backend.Available() {
		return nil, errors.Wrapf(ErrBackendUnavailable, "backend %q", backend.Info().Name)
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrapf(err, "backend %q: list devices", backend.Info().Name)
	}

	if spec.Index >= len(devices) {
		return nil, errors.Wrapf(ErrInvalidDevice,
			"backend %q has %d device(s), index %d requested", backend.Info().Name, len(devices), spec.Index)
	}

	return backend.NewContext(spec.Index)
}

// Devices lists the devices of the backend registered under name.
func Devices(name string) ([]DeviceInfo, error) {
	backend, ok := getBackend(name)
	if !ok {
		return nil, errors.Wrapf(ErrNoBackend, "backend %q", name)
	}

	if !backend.Available() {
		return nil, errors.Wrapf(ErrBackendUnavailable, "backend %q", backend.Info().Name)
	}

	return backend.Devices()
}
