package command

// Options holds the optional trailing fields of a command.
type Options struct {
	Nonce    *uint32
	Deadline *uint32
}

// Option configures the optional trailing fields
type Option func(*Options)

// WithNonce sets the replay-protection nonce
func WithNonce(nonce uint32) Option {
	return func(o *Options) {
		o.Nonce = &nonce
	}
}

// WithDeadline sets the expiry in unix seconds. A deadline is only encodable
// together with a nonce.
func WithDeadline(deadline uint32) Option {
	return func(o *Options) {
		o.Deadline = &deadline
	}
}

func applyOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
