// Package sysmem detects total system RAM so batch sizes can be bounded
// relative to the machine the tool runs on.
package sysmem

// FallbackBytes is used when platform detection fails or is unsupported.
const FallbackBytes uint64 = 4 * 1024 * 1024 * 1024

// TotalRAM returns total system memory in bytes. The second return is
// false when the value is the fallback rather than a detected one.
func TotalRAM() (uint64, bool) {
	b, ok := totalSystemMemory()
	if !ok || b == 0 {
		return FallbackBytes, false
	}
	return b, true
}
