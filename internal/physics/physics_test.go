package physics

import (
	"math"
	"testing"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

// TestDirectionOffset_EightWay 测试八方向输入偏移角
func TestDirectionOffset_EightWay(t *testing.T) {
	tests := []struct {
		name            string
		forward, strafe float64
		want            float64
	}{
		{"forward", 1, 0, 0},
		{"backward", -1, 0, math.Pi},
		{"left", 0, 1, math.Pi / 2},
		{"right", 0, -1, -math.Pi / 2},
		{"forward-left", 1, 1, math.Pi / 4},
		{"forward-right", 1, -1, -math.Pi / 4},
		{"backward-left", -1, 1, 3 * math.Pi / 4},
		{"backward-right", -1, -1, -3 * math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DirectionOffset(tt.forward, tt.strafe)
			if !ok {
				t.Fatalf("DirectionOffset(%v, %v) ok = false", tt.forward, tt.strafe)
			}
			approxEqual(t, got, tt.want, 1e-12, "angle")
		})
	}
}

// TestDirectionOffset_ZeroVectorShortCircuits 测试零向量不产生方向
func TestDirectionOffset_ZeroVectorShortCircuits(t *testing.T) {
	angle, ok := DirectionOffset(0, 0)
	if ok {
		t.Fatalf("DirectionOffset(0, 0) ok = true, want false")
	}
	if math.IsNaN(angle) {
		t.Fatalf("DirectionOffset(0, 0) angle is NaN")
	}
}

// TestHeadingAndYawOfRoundTrip 测试朝向向量与偏航角互相转换
func TestHeadingAndYawOfRoundTrip(t *testing.T) {
	for _, yaw := range []float64{0, 0.5, -2, math.Pi} {
		h := Heading(yaw)
		approxEqual(t, h.Len(), 1, 1e-12, "len")
		approxEqual(t, h.Y(), 0, 1e-12, "y")
		got, ok := YawOf(h)
		if !ok {
			t.Fatalf("YawOf(%v) ok = false", h)
		}
		approxEqual(t, AngleDiff(got, yaw), 0, 1e-12, "yaw")
	}
	if _, ok := YawOf(Vec3{0, 3, 0}); ok {
		t.Fatalf("YawOf(vertical) ok = true, want false")
	}
}

// TestNormalizeAngle 测试角度归一化到 (-pi, pi]
func TestNormalizeAngle(t *testing.T) {
	approxEqual(t, NormalizeAngle(3*math.Pi), math.Pi, 1e-12, "3pi")
	approxEqual(t, NormalizeAngle(-math.Pi), math.Pi, 1e-12, "-pi")
	approxEqual(t, NormalizeAngle(-3*math.Pi/2), math.Pi/2, 1e-12, "-3pi/2")
	approxEqual(t, NormalizeAngle(math.NaN()), 0, 0, "nan")
}

// TestSignedAngleDelta_TakesShortestArc 测试有符号角度差取最短弧
func TestSignedAngleDelta_TakesShortestArc(t *testing.T) {
	from := 170 * math.Pi / 180
	to := -170 * math.Pi / 180
	approxEqual(t, SignedAngleDelta(from, to), 20*math.Pi/180, 1e-12, "delta")
}

// TestApproachAngle_ExponentialAndFrameRateIndependent 测试指数转向与帧率无关
func TestApproachAngle_ExponentialAndFrameRateIndependent(t *testing.T) {
	target := math.Pi / 2

	// One 0.1s step must land where ten 0.01s steps land.
	big := ApproachAngle(0, target, DefaultTurnRate, 0.1)
	small := 0.0
	for i := 0; i < 10; i++ {
		small = ApproachAngle(small, target, DefaultTurnRate, 0.01)
	}
	approxEqual(t, big, small, 1e-9, "angle")

	want := target * (1 - math.Exp(-DefaultTurnRate*0.1))
	approxEqual(t, big, want, 1e-12, "one step")
	if big <= 0 || big >= target {
		t.Fatalf("angle = %v, want strictly between 0 and target", big)
	}
}

// TestApproachAngle_ZeroDeltaKeepsAngle 测试零时间步保持角度
func TestApproachAngle_ZeroDeltaKeepsAngle(t *testing.T) {
	approxEqual(t, ApproachAngle(1, 2, DefaultTurnRate, 0), 1, 0, "angle")
}

// TestClampDelta 测试时间步限制
func TestClampDelta(t *testing.T) {
	approxEqual(t, ClampDelta(0.016, 0.1), 0.016, 0, "normal")
	approxEqual(t, ClampDelta(5, 0.1), 0.1, 0, "backgrounded tab")
	approxEqual(t, ClampDelta(-1, 0.1), 0, 0, "negative")
	approxEqual(t, ClampDelta(math.NaN(), 0.1), 0, 0, "nan")
}

// TestLerpPerAxis 测试逐轴线性插值
func TestLerpPerAxis(t *testing.T) {
	got := Lerp(Vec3{0, 10, -4}, Vec3{10, 0, 4}, 0.3)
	approxEqual(t, got.X(), 3, 1e-12, "x")
	approxEqual(t, got.Y(), 7, 1e-12, "y")
	approxEqual(t, got.Z(), -1.6, 1e-12, "z")
}
