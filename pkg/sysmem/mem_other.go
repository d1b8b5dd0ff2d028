//go:build !linux && !darwin && !windows

package sysmem

func totalSystemMemory() (uint64, bool) {
	return 0, false
}
