package models

// Classification is the outcome of comparing a value with a threshold band.
type Classification string

const (
	ClassNormal       Classification = "NORMAL"
	ClassCritical     Classification = "CRITICAL"
	ClassUnconfigured Classification = "UNCONFIGURED"
)

// ThresholdConfig is the operator-supplied safe band. A nil bound means "not set".
type ThresholdConfig struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Band builds a fully configured band.
func Band(min, max float64) ThresholdConfig {
	return ThresholdConfig{Min: &min, Max: &max}
}

// Configured is true only when both bounds are set.
func (c ThresholdConfig) Configured() bool {
	return c.Min != nil && c.Max != nil
}

// Clone returns a copy that shares no pointers with c.
func (c ThresholdConfig) Clone() ThresholdConfig {
	var out ThresholdConfig
	if c.Min != nil {
		v := *c.Min
		out.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		out.Max = &v
	}
	return out
}
