//go:build unix

package pathkey

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Device resolves a path to the "major:minor" device number of the
// filesystem holding it, so paths on the same disk share one key without
// any mount configuration. Each resolution stats the path; wrap with
// NewCached for hot call sites.
type Device struct{}

// NewDevice creates a Device resolver.
func NewDevice() *Device {
	return &Device{}
}

// ResolveKey stats path and returns its device number as "major:minor".
// If path does not exist yet, its nearest existing ancestor is used, so keys
// can be resolved for files about to be created.
func (d *Device) ResolveKey(path string) (string, error) {
	p := filepath.Clean(path)

	var st unix.Stat_t
	for {
		err := unix.Stat(p, &st)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
		p = parent
	}

	dev := uint64(st.Dev)
	return fmt.Sprintf("%d:%d", unix.Major(dev), unix.Minor(dev)), nil
}
