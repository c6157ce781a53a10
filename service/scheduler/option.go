package scheduler

// Option configures the scheduler.
type Option func(*Service)

// WithBigStride sets the constant divided by priority on every fetch.
func WithBigStride(bigStride uint64) Option {
	return func(s *Service) {
		s.bigStride = bigStride
	}
}
