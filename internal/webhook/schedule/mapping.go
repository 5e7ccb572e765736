// Package schedule decides when the next automatic webhook delivery retry
// should run. The step-function mapping is configurable per merchant through
// the `pt_mapping_outgoing_webhooks` config entry.
package schedule

import "time"

// Mapping is one retry schedule: the first retry waits StartAfter seconds,
// then the Frequency/Count pairs are consumed as a step function. Frequency
// and Count are parallel: Count[i] attempts run Frequency[i] seconds apart.
type Mapping struct {
	StartAfter int64   `json:"start_after"`
	Frequency  []int64 `json:"frequency"`
	Count      []int64 `json:"count"`
}

// RetryMapping is the JSON shape of the retry schedule configuration.
type RetryMapping struct {
	DefaultMapping        Mapping            `json:"default_mapping"`
	CustomMerchantMapping map[string]Mapping `json:"custom_merchant_mapping"`
}

// Default is the built-in schedule used when no configuration is stored:
// first retry after a minute, then five retries five minutes apart.
func Default() RetryMapping {
	return RetryMapping{
		DefaultMapping: Mapping{
			StartAfter: 60,
			Frequency:  []int64{300},
			Count:      []int64{5},
		},
	}
}

// For selects the merchant's override, falling back to the default mapping.
func (m RetryMapping) For(merchantID string) (Mapping, bool) {
	if custom, ok := m.CustomMerchantMapping[merchantID]; ok {
		return custom, true
	}
	return m.DefaultMapping, false
}

// Resolve returns the delay before retry attempt number `attempt` (1-based:
// the retry about to be scheduled, so callers pass retry_count + 1). The
// second return is false once the mapping's budget is exhausted.
func Resolve(m Mapping, attempt int) (time.Duration, bool) {
	if attempt <= 0 {
		return 0, false
	}
	if attempt == 1 {
		return time.Duration(m.StartAfter) * time.Second, true
	}
	remaining := int64(attempt - 1)
	for i, count := range m.Count {
		if remaining <= count {
			if i >= len(m.Frequency) {
				break
			}
			return time.Duration(m.Frequency[i]) * time.Second, true
		}
		remaining -= count
	}
	return 0, false
}
