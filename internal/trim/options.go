package trim

const (
	// DefaultThreshold is the stub threshold, in characters, used when the
	// caller does not set one.
	DefaultThreshold = 500

	// MinThreshold is the hard floor for the stub threshold. Values below
	// it are silently raised, never rejected.
	MinThreshold = 100
)

// Options configures a trim run. The zero value uses DefaultThreshold.
type Options struct {
	// Threshold is the character length above which tool results and
	// tool inputs are replaced with a stub.
	Threshold int
}

func (o Options) threshold() int {
	t := o.Threshold
	if t == 0 {
		t = DefaultThreshold
	}
	if t < MinThreshold {
		t = MinThreshold
	}
	return t
}
