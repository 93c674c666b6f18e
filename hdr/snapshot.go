package hdr

import jsoniter "github.com/json-iterator/go"

// Percentile is one row of a percentile table, as produced by Percentiles.
type Percentile struct {
	ValueIteratedTo uint64
	Percentile      float64
	CountAtValue    uint64
	TotalCount      uint64
}

// Percentiles is a convenience wrapper over IterQuantiles that returns a
// complete percentile table rather than requiring the caller to drive the
// iterator itself.
func (h *Histogram[C]) Percentiles(ticksPerHalfDistance uint64) []Percentile {
	it := h.IterQuantiles(ticksPerHalfDistance)
	var out []Percentile
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, Percentile{
			ValueIteratedTo: item.ValueIteratedTo,
			Percentile:      item.QuantileIteratedTo * 100,
			CountAtValue:    item.CountAtValue,
			TotalCount:      h.totalCount,
		})
	}
	return out
}

// Stats is a read-only snapshot of a Histogram's summary statistics and a
// percentile table, suitable for JSON export (e.g. embedding in a log line
// or a debug endpoint) without exposing the full counts array.
type Stats struct {
	TotalCount  uint64       `json:"totalCount"`
	Min         uint64       `json:"min"`
	Max         uint64       `json:"max"`
	Mean        float64      `json:"mean"`
	StdDev      float64      `json:"stdDev"`
	Percentiles []Percentile `json:"percentiles"`
}

// Snapshot captures h's current summary statistics and a standard
// percentile table (ticksPerHalfDistance == 5, matching the teacher's
// default histogram bucket factor convention) into a Stats value
// independent of further mutation of h.
func (h *Histogram[C]) Snapshot() Stats {
	return Stats{
		TotalCount:  h.totalCount,
		Min:         h.Min(),
		Max:         h.Max(),
		Mean:        h.Mean(),
		StdDev:      h.StdDev(),
		Percentiles: h.Percentiles(5),
	}
}

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON implements json.Marshaler using json-iterator's
// standard-library-compatible codec, the same config the teacher's
// value.go reaches for when it needs fast MetricFamily marshaling.
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	return snapshotJSON.Marshal(alias(s))
}

// UnmarshalJSON implements json.Unmarshaler, the inverse of MarshalJSON.
func (s *Stats) UnmarshalJSON(data []byte) error {
	type alias Stats
	return snapshotJSON.Unmarshal(data, (*alias)(s))
}
