package logging

// ProgressSampler throttles done-of-total progress logs to one line per
// percentage step. The first and last item always emit.
type ProgressSampler struct {
	step     int
	lastStep int
}

// NewProgressSampler emits whenever progress crosses a multiple of stepPercent.
// Values outside 1..100 fall back to 10.
func NewProgressSampler(stepPercent int) *ProgressSampler {
	if stepPercent <= 0 || stepPercent > 100 {
		stepPercent = 10
	}
	return &ProgressSampler{step: stepPercent, lastStep: -1}
}

// Due reports whether progress after completing done of total items should be logged.
func (s *ProgressSampler) Due(done, total int) bool {
	if s == nil || total <= 0 {
		return true
	}
	if done >= total {
		s.lastStep = 100 / s.step
		return true
	}
	current := done * 100 / total / s.step
	if done == 1 || current > s.lastStep {
		s.lastStep = current
		return true
	}
	return false
}
