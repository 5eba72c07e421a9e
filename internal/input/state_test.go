package input

import "testing"

// TestStatePressReleaseIsCaseInsensitive 测试按键按下与释放不区分大小写
func TestStatePressReleaseIsCaseInsensitive(t *testing.T) {
	s := NewState()
	s.Press("W")
	if !s.Held("w") {
		t.Fatalf("Held(w) = false after Press(W)")
	}
	s.Release("w")
	if s.Held("W") {
		t.Fatalf("Held(W) = true after Release(w)")
	}
}

// TestSnapshotIsDetachedFromState 测试快照与状态相互独立
func TestSnapshotIsDetachedFromState(t *testing.T) {
	s := NewState()
	s.Press("w")
	f := s.Snapshot()
	s.Release("w")
	s.Press("d")

	if !f.Pressed("w") || f.Pressed("d") {
		t.Fatalf("snapshot changed after state mutation: %v", f)
	}
}

// TestSnapshotConsumesRunToggle 测试快照消费奔跑切换请求
func TestSnapshotConsumesRunToggle(t *testing.T) {
	s := NewState()
	s.RequestRunToggle()

	if !s.Snapshot().ToggleRun {
		t.Fatalf("first snapshot ToggleRun = false, want true")
	}
	if s.Snapshot().ToggleRun {
		t.Fatalf("second snapshot ToggleRun = true, want consumed")
	}

	s.RequestRunToggle()
	s.RequestRunToggle()
	if s.Snapshot().ToggleRun {
		t.Fatalf("double toggle before snapshot should cancel")
	}
}

// TestFrameAnyDirectional 测试是否存在方向键
func TestFrameAnyDirectional(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  bool
	}{
		{"none", Frame{}, false},
		{"non-directional", Keys("q", "shift"), false},
		{"forward", Keys("w"), true},
		{"opposing", Keys("a", "d"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.AnyDirectional(); got != tt.want {
				t.Fatalf("AnyDirectional() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFrameAxes 测试前后与左右输入轴
func TestFrameAxes(t *testing.T) {
	tests := []struct {
		keys            []string
		forward, strafe float64
	}{
		{nil, 0, 0},
		{[]string{"w"}, 1, 0},
		{[]string{"s"}, -1, 0},
		{[]string{"a"}, 0, 1},
		{[]string{"d"}, 0, -1},
		{[]string{"w", "d"}, 1, -1},
		{[]string{"w", "s"}, 0, 0},
	}
	for _, tt := range tests {
		f, s := Keys(tt.keys...).Axes()
		if f != tt.forward || s != tt.strafe {
			t.Errorf("Keys(%v).Axes() = (%v, %v), want (%v, %v)", tt.keys, f, s, tt.forward, tt.strafe)
		}
	}
}

// TestClearDropsKeysAndToggle 测试清空按键与切换请求
func TestClearDropsKeysAndToggle(t *testing.T) {
	s := NewState()
	s.Press("w")
	s.RequestRunToggle()
	s.Clear()

	f := s.Snapshot()
	if f.AnyDirectional() || f.ToggleRun {
		t.Fatalf("snapshot after Clear = %+v, want empty", f)
	}
}
