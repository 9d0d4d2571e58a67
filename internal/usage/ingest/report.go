package ingest

// SkipReason classifies why a single record was dropped during decoding.
type SkipReason string

const (
	SkipUnparsableDate SkipReason = "unparsable_date"
	SkipNotARecord     SkipReason = "not_a_record"
	SkipMissingPeriod  SkipReason = "missing_period"
)

// Skip is one dropped record with enough context to find it upstream.
type Skip struct {
	Series string     `json:"series"`
	Index  int        `json:"index"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Report accumulates per-record outcomes for one decode pass, so skipped
// records are observable instead of silently swallowed.
type Report struct {
	Accepted       int    `json:"accepted"`
	Skips          []Skip `json:"skips,omitempty"`
	RateMismatches int    `json:"rate_mismatches"`
}

// Skipped returns the number of dropped records.
func (r *Report) Skipped() int { return len(r.Skips) }

func (r *Report) addSkip(series string, index int, reason SkipReason, detail string) {
	r.Skips = append(r.Skips, Skip{Series: series, Index: index, Reason: reason, Detail: detail})
}
