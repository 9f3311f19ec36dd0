package pngchunk

type parseConfig struct {
	limits    Limits
	verifyCRC bool
}

type ParseOption func(*parseConfig)

func WithParseLimits(l Limits) ParseOption {
	return func(c *parseConfig) { c.limits = l }
}

// WithVerifyCRC controls whether the declared CRC is checked against the
// recomputed one. Verification is on by default; disabling it accepts
// corrupted records and is only appropriate for salvage tooling.
func WithVerifyCRC(v bool) ParseOption {
	return func(c *parseConfig) { c.verifyCRC = v }
}
