// Package animation cross-fades between named animation clips. It tracks clip
// weights only; sampling the clips is left to whatever renders the model.
package animation

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	ErrUnknownClip = errors.New("unknown animation clip")
	ErrNoClips     = errors.New("no playable animation clips")
)

type track struct {
	weight float64
	// rate is the weight change per second for the running fade.
	rate float64
}

type Blender struct {
	tracks   map[string]*track
	current  string
	requests int
}

// NewBlender builds a blender over clips, skipping any name listed in
// exclude (bind poses and the like). initial starts at full weight.
func NewBlender(clips []string, initial string, exclude ...string) (*Blender, error) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}
	b := &Blender{tracks: make(map[string]*track, len(clips))}
	for _, name := range clips {
		if name == "" || skip[name] {
			continue
		}
		b.tracks[name] = &track{}
	}
	if len(b.tracks) == 0 {
		return nil, ErrNoClips
	}
	t, ok := b.tracks[initial]
	if !ok {
		return nil, fmt.Errorf("%w: initial clip %q", ErrUnknownClip, initial)
	}
	t.weight = 1
	b.current = initial
	return b, nil
}

// Play starts a cross-fade to name over fade seconds. Asking for the clip
// that is already the target does nothing and reports false, so an
// in-progress fade toward it is never restarted.
func (b *Blender) Play(name string, fade float64) (bool, error) {
	if _, ok := b.tracks[name]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	if name == b.current {
		return false, nil
	}
	b.requests++
	slog.Debug("animation crossfade", "from", b.current, "to", name, "fade", fade)
	b.current = name

	if fade <= 0 {
		for n, t := range b.tracks {
			t.rate = 0
			t.weight = 0
			if n == name {
				t.weight = 1
			}
		}
		return true, nil
	}
	for n, t := range b.tracks {
		if n == name {
			t.rate = (1 - t.weight) / fade
			continue
		}
		t.rate = -t.weight / fade
	}
	return true, nil
}

// Advance moves every weight toward its goal. Weights only ever move in the
// direction of the running fade and stop exactly at 0 or 1.
func (b *Blender) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	for _, t := range b.tracks {
		if t.rate == 0 {
			continue
		}
		t.weight += t.rate * dt
		switch {
		case t.rate > 0 && t.weight >= 1:
			t.weight, t.rate = 1, 0
		case t.rate < 0 && t.weight <= 0:
			t.weight, t.rate = 0, 0
		}
	}
}

func (b *Blender) Current() string { return b.current }

func (b *Blender) Weight(name string) float64 {
	if t, ok := b.tracks[name]; ok {
		return t.weight
	}
	return 0
}

func (b *Blender) Fading() bool {
	for _, t := range b.tracks {
		if t.rate != 0 {
			return true
		}
	}
	return false
}

// Requests counts the cross-fades actually started.
func (b *Blender) Requests() int { return b.requests }

func (b *Blender) Clips() []string {
	out := make([]string, 0, len(b.tracks))
	for name := range b.tracks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
