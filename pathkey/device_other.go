//go:build !unix

package pathkey

import "path/filepath"

// Device resolves a path to its volume on platforms without Unix device
// numbers, so all paths on one drive share a key. On Unix it resolves to the
// filesystem's "major:minor" device number instead.
type Device struct{}

// NewDevice creates a Device resolver.
func NewDevice() *Device {
	return &Device{}
}

// ResolveKey returns the path's volume name (the drive on Windows), or the
// path separator for paths without one.
func (d *Device) ResolveKey(path string) (string, error) {
	p := filepath.Clean(path)
	if vol := filepath.VolumeName(p); vol != "" {
		return vol, nil
	}
	return string(filepath.Separator), nil
}
