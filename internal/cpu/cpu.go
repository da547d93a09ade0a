// Package cpu detects the SIMD extensions used to pick row kernels.
//
// Detection runs once, lazily, and is cached. Tests can override the
// result with SetForcedFeatures.
package cpu

import "sync"

// SIMDLevel identifies the instruction set a kernel is written for.
type SIMDLevel int

const (
	// SIMDNone is the portable Go kernel.
	SIMDNone SIMDLevel = iota
	// SIMDSSE2 is the amd64 baseline.
	SIMDSSE2
	// SIMDAVX2 is amd64 with 256-bit integer operations.
	SIMDAVX2
	// SIMDNEON is arm64 Advanced SIMD.
	SIMDNEON
)

var levelNames = [...]string{
	SIMDNone: "none",
	SIMDSSE2: "sse2",
	SIMDAVX2: "avx2",
	SIMDNEON: "neon",
}

// String returns the lower-case name of the level.
func (s SIMDLevel) String() string {
	if s >= 0 && int(s) < len(levelNames) {
		return levelNames[s]
	}
	return "unknown"
}

// Features describes the capabilities relevant to kernel selection.
type Features struct {
	HasSSE2 bool
	HasAVX2 bool
	HasNEON bool

	// ForceGeneric restricts selection to SIMDNone kernels.
	ForceGeneric bool

	// Architecture is runtime.GOARCH.
	Architecture string
}

// Generic returns a Features value that only admits portable kernels.
func Generic() Features {
	f := DetectFeatures()
	f.ForceGeneric = true
	return f
}

var (
	detectedFeatures Features
	detectOnce       sync.Once
	detectMutex      sync.Mutex

	forcedFeatures *Features
	forcedMutex    sync.RWMutex
)

// DetectFeatures returns the features of the running CPU, or the forced set
// if one is installed. Safe for concurrent use.
func DetectFeatures() Features {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced
	}

	detectMutex.Lock()
	detectOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
	})
	features := detectedFeatures
	detectMutex.Unlock()

	return features
}

// SetForcedFeatures overrides detection. Intended for tests.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ResetDetection clears forced features and the detection cache.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectMutex.Unlock()
}

// Supports reports whether a kernel written for level can run with features.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE2:
		return features.HasSSE2
	case SIMDAVX2:
		return features.HasAVX2
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}
