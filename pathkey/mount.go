package pathkey

import (
	"path/filepath"
	"sort"
	"strings"
)

// Mount resolves a path to the longest configured mount point containing it.
// Matching is purely lexical; the filesystem is never touched.
type Mount struct {
	mounts []string
}

// NewMount creates a Mount resolver over the given mount points. Mount
// points are cleaned and matched longest-first, so nested mounts like /mnt
// and /mnt/fast behave as expected. Paths outside every mount resolve to the
// path's volume root ("/" on Unix, the drive on Windows).
func NewMount(mounts ...string) *Mount {
	cleaned := make([]string, 0, len(mounts))
	for _, mnt := range mounts {
		if mnt == "" {
			continue
		}
		cleaned = append(cleaned, filepath.Clean(mnt))
	}
	sort.Slice(cleaned, func(i, j int) bool {
		return len(cleaned[i]) > len(cleaned[j])
	})
	return &Mount{mounts: cleaned}
}

// ResolveKey returns the mount point containing path.
func (m *Mount) ResolveKey(path string) (string, error) {
	p := filepath.Clean(path)
	for _, mnt := range m.mounts {
		if containsPath(mnt, p) {
			return mnt, nil
		}
	}
	if vol := filepath.VolumeName(p); vol != "" {
		return vol, nil
	}
	return string(filepath.Separator), nil
}

// containsPath reports whether p equals mnt or lies below it. The separator
// check prevents /mnt/fastdata from matching the /mnt/fast mount.
func containsPath(mnt, p string) bool {
	if p == mnt {
		return true
	}
	if mnt == string(filepath.Separator) {
		return strings.HasPrefix(p, mnt)
	}
	return strings.HasPrefix(p, mnt+string(filepath.Separator))
}
