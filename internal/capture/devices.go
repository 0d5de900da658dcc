package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fixify/internal/services"
)

// Facing describes which way a camera points relative to the user.
type Facing string

const (
	FacingFront Facing = "front"
	FacingRear  Facing = "rear"
	FacingAuto  Facing = "auto"
)

// CameraDevice is one discovered video4linux capture node.
type CameraDevice struct {
	Path string
	Name string
}

// DeviceResolver picks the capture device for a session. Injected so tests
// can run without hardware.
type DeviceResolver func(preferred Facing, explicit string) (CameraDevice, error)

const sysVideoClassDir = "/sys/class/video4linux"

// ResolveDevice selects a camera. An explicitly configured device always
// wins. Otherwise devices are discovered from sysfs and matched against the
// preferred facing by card name; auto (or no match) falls back to the
// lowest-numbered device.
func ResolveDevice(preferred Facing, explicit string) (CameraDevice, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return CameraDevice{Path: explicit, Name: readCardName(filepath.Base(explicit))}, nil
	}

	devices, err := discoverDevices()
	if err != nil {
		return CameraDevice{}, err
	}
	if len(devices) == 0 {
		return CameraDevice{}, services.Wrap(services.ErrNotFound, "capture", "resolve-device", "no camera devices found", nil)
	}

	if preferred == FacingFront || preferred == FacingRear {
		for _, device := range devices {
			if matchesFacing(device.Name, preferred) {
				return device, nil
			}
		}
		// Requested facing absent; any camera is better than none.
	}
	return devices[0], nil
}

func discoverDevices() ([]CameraDevice, error) {
	entries, err := os.ReadDir(sysVideoClassDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan video devices: %w", err)
	}

	devices := make([]CameraDevice, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "video") {
			continue
		}
		devices = append(devices, CameraDevice{
			Path: "/dev/" + name,
			Name: readCardName(name),
		})
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Path < devices[j].Path })
	return devices, nil
}

func readCardName(node string) string {
	data, err := os.ReadFile(filepath.Join(sysVideoClassDir, node, "name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func matchesFacing(cardName string, facing Facing) bool {
	lowered := strings.ToLower(cardName)
	switch facing {
	case FacingFront:
		return strings.Contains(lowered, "front") || strings.Contains(lowered, "user")
	case FacingRear:
		return strings.Contains(lowered, "rear") || strings.Contains(lowered, "back") || strings.Contains(lowered, "world")
	default:
		return false
	}
}

// ParseFacing normalizes a configured facing value.
func ParseFacing(value string) (Facing, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "front":
		return FacingFront, true
	case "rear":
		return FacingRear, true
	case "auto", "":
		return FacingAuto, true
	default:
		return FacingAuto, false
	}
}
