package animator

import "github.com/Carmen-Shannon/oxy-anim/engine/animation/clip"

// manualScheduler steps its clips from an explicit clock.
type manualScheduler struct {
	clips []*clip.Clip
	now   float64
}

func (s *manualScheduler) AddClip(c *clip.Clip) {
	for _, existing := range s.clips {
		if existing == c {
			return
		}
	}
	s.clips = append(s.clips, c)
}

func (s *manualScheduler) RemoveClip(c *clip.Clip) {
	for i, existing := range s.clips {
		if existing == c {
			s.clips = append(s.clips[:i], s.clips[i+1:]...)
			return
		}
	}
}

func (s *manualScheduler) tick(delta float64) {
	s.now += delta
	for _, c := range append([]*clip.Clip(nil), s.clips...) {
		if c.Step(s.now, delta) {
			s.RemoveClip(c)
			c.Destroy()
		}
	}
}
