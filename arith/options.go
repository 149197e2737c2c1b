package arith

type addConfig struct {
	fourierIn  bool
	fourierOut bool
}

// Option configures the modular constant adder.
type Option func(*addConfig)

// WithFourierInput states that the register is already Fourier transformed;
// the initial basis change is skipped.
func WithFourierInput() Option {
	return func(cfg *addConfig) {
		cfg.fourierIn = true
	}
}

// WithFourierOutput requests Fourier-basis output; the final inverse basis
// change is skipped.
func WithFourierOutput() Option {
	return func(cfg *addConfig) {
		cfg.fourierOut = true
	}
}
