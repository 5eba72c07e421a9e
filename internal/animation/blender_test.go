package animation

import (
	"errors"
	"math"
	"testing"
)

func newTestBlender(t *testing.T) *Blender {
	t.Helper()
	b, err := NewBlender([]string{"Idle", "Walk", "Run", "TPose"}, "Idle", "TPose")
	if err != nil {
		t.Fatalf("NewBlender: %v", err)
	}
	return b
}

// TestNewBlenderExcludesBindPose 测试排除绑定姿势片段
func TestNewBlenderExcludesBindPose(t *testing.T) {
	b := newTestBlender(t)
	clips := b.Clips()
	if len(clips) != 3 {
		t.Fatalf("Clips() = %v, want 3 clips", clips)
	}
	if _, err := b.Play("TPose", 0.2); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("Play(TPose) err = %v, want ErrUnknownClip", err)
	}
	if b.Weight("Idle") != 1 || b.Current() != "Idle" {
		t.Fatalf("initial Idle weight = %v current = %q", b.Weight("Idle"), b.Current())
	}
}

// TestNewBlenderErrors 测试创建混合器的错误情况
func TestNewBlenderErrors(t *testing.T) {
	if _, err := NewBlender([]string{"TPose"}, "TPose", "TPose"); !errors.Is(err, ErrNoClips) {
		t.Fatalf("err = %v, want ErrNoClips", err)
	}
	if _, err := NewBlender([]string{"Idle"}, "Walk"); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("err = %v, want ErrUnknownClip", err)
	}
}

// TestPlayCrossFadesOverDuration 测试在淡入时长内完成交叉淡化
func TestPlayCrossFadesOverDuration(t *testing.T) {
	b := newTestBlender(t)
	started, err := b.Play("Walk", 0.2)
	if err != nil || !started {
		t.Fatalf("Play(Walk) = %v, %v", started, err)
	}

	b.Advance(0.1)
	if math.Abs(b.Weight("Walk")-0.5) > 1e-9 || math.Abs(b.Weight("Idle")-0.5) > 1e-9 {
		t.Fatalf("halfway weights walk=%v idle=%v, want 0.5/0.5", b.Weight("Walk"), b.Weight("Idle"))
	}
	b.Advance(0.15)
	if b.Weight("Walk") != 1 || b.Weight("Idle") != 0 {
		t.Fatalf("final weights walk=%v idle=%v, want 1/0", b.Weight("Walk"), b.Weight("Idle"))
	}
	if b.Fading() {
		t.Fatalf("Fading() = true after fade completed")
	}
}

// TestPlaySameClipDoesNotRestartFade 测试重复播放同一片段不会重启淡化
func TestPlaySameClipDoesNotRestartFade(t *testing.T) {
	b := newTestBlender(t)
	_, _ = b.Play("Walk", 0.2)
	b.Advance(0.05)
	before := b.Weight("Walk")

	started, err := b.Play("Walk", 0.2)
	if err != nil || started {
		t.Fatalf("second Play(Walk) = %v, %v, want false, nil", started, err)
	}
	b.Advance(0.05)
	if got := b.Weight("Walk"); math.Abs(got-(before+0.25)) > 1e-9 {
		t.Fatalf("walk weight = %v, want %v (fade continued)", got, before+0.25)
	}
	if b.Requests() != 1 {
		t.Fatalf("Requests() = %d, want 1", b.Requests())
	}
}

// TestWeightsAreMonotonicDuringFade 测试淡化过程中权重单调变化
func TestWeightsAreMonotonicDuringFade(t *testing.T) {
	b := newTestBlender(t)
	_, _ = b.Play("Run", 0.2)
	prevRun, prevIdle := b.Weight("Run"), b.Weight("Idle")
	for i := 0; i < 30; i++ {
		b.Advance(0.01)
		run, idle := b.Weight("Run"), b.Weight("Idle")
		if run < prevRun || idle > prevIdle {
			t.Fatalf("step %d: run %v->%v idle %v->%v not monotonic", i, prevRun, run, prevIdle, idle)
		}
		if run > 1 || idle < 0 {
			t.Fatalf("step %d: weights out of range run=%v idle=%v", i, run, idle)
		}
		prevRun, prevIdle = run, idle
	}
}

// TestRetargetMidFadeStartsFromCurrentWeights 测试淡化中途切换目标从当前权重开始
func TestRetargetMidFadeStartsFromCurrentWeights(t *testing.T) {
	b := newTestBlender(t)
	_, _ = b.Play("Walk", 0.2)
	b.Advance(0.1)

	if _, err := b.Play("Run", 0.2); err != nil {
		t.Fatalf("Play(Run): %v", err)
	}
	if math.Abs(b.Weight("Walk")-0.5) > 1e-9 {
		t.Fatalf("walk weight jumped to %v on retarget", b.Weight("Walk"))
	}
	b.Advance(0.25)
	if b.Weight("Run") != 1 || b.Weight("Walk") != 0 || b.Weight("Idle") != 0 {
		t.Fatalf("weights after retarget run=%v walk=%v idle=%v", b.Weight("Run"), b.Weight("Walk"), b.Weight("Idle"))
	}
}

// TestPlayWithZeroFadeSnaps 测试零淡入时长立即切换
func TestPlayWithZeroFadeSnaps(t *testing.T) {
	b := newTestBlender(t)
	_, _ = b.Play("Run", 0)
	if b.Weight("Run") != 1 || b.Weight("Idle") != 0 || b.Fading() {
		t.Fatalf("zero fade did not snap: run=%v idle=%v", b.Weight("Run"), b.Weight("Idle"))
	}
}
