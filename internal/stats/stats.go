// Package stats defines the resource-statistics collaborator consumed by the
// daemon. Sampling implementations live outside this repository; tests and
// the daemon depend only on the Sampler contract.
package stats

// StaticData describes the machine, gathered once at startup
type StaticData struct {
	CPUModel          string `json:"cpuModel"`
	TotalMemoryGB     int    `json:"totalMemoryGB"`
	TotalStorageBytes int64  `json:"totalStorage"`
}

// Sample is one point-in-time reading of resource usage, as fractions in [0,1]
type Sample struct {
	CPUUsage     float64 `json:"cpuUsage"`
	RAMUsage     float64 `json:"ramUsage"`
	StorageUsage float64 `json:"storageUsage"`
}

// Sampler is the collaborator interface for resource statistics
type Sampler interface {
	Static() StaticData
	Sample() (Sample, error)
}
