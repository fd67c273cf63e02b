package ranking

// Config holds the scoring weights and constants. The component weights must
// sum to 1.0 so the final score stays in [0,1]; Validate enforces this.
type Config struct {
	// Component weights.
	WeightRecency      float64
	WeightEngagement   float64
	WeightRelationship float64
	WeightContentType  float64

	// Relationship components, one per Label.
	// Note: the following-only component equals the own component (1.0) and
	// exceeds mutual (0.8). This looks like an authoring mistake in the
	// source model but is kept as-is on purpose; do not reorder without a
	// product decision.
	CompOwn       float64
	CompMutual    float64
	CompFollowing float64
	CompFollower  float64
	CompSuggested float64

	// Recency decays linearly to zero over this many hours.
	DecayHours float64

	// Engagement: likes*LikeWeight + comments*CommentWeight, normalized
	// against EngagementCap and clamped to 1.
	LikeWeight    float64
	CommentWeight float64
	EngagementCap float64

	// Content type component values.
	CompVisualMedia float64
	CompTextOnly    float64
}

// DefaultConfig returns the source model's constants.
func DefaultConfig() Config {
	return Config{
		WeightRecency:      0.35,
		WeightEngagement:   0.30,
		WeightRelationship: 0.25,
		WeightContentType:  0.10,

		CompOwn:       1.0,
		CompMutual:    0.8,
		CompFollowing: 1.0,
		CompFollower:  0.6,
		CompSuggested: 0.1,

		DecayHours: 72,

		LikeWeight:    0.6,
		CommentWeight: 0.4,
		EngagementCap: 50,

		CompVisualMedia: 1.0,
		CompTextOnly:    0.3,
	}
}

const weightSumTolerance = 1e-9

// Valid reports whether the component weights sum to 1.0.
func (c Config) Valid() bool {
	sum := c.WeightRecency + c.WeightEngagement + c.WeightRelationship + c.WeightContentType
	diff := sum - 1.0
	if diff < 0 {
		diff = -diff
	}
	return diff <= weightSumTolerance && c.DecayHours > 0 && c.EngagementCap > 0
}
