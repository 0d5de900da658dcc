package capture

import "testing"

func TestParseFacing(t *testing.T) {
	tests := []struct {
		input string
		want  Facing
		ok    bool
	}{
		{"front", FacingFront, true},
		{"REAR", FacingRear, true},
		{" auto ", FacingAuto, true},
		{"", FacingAuto, true},
		{"sideways", FacingAuto, false},
	}
	for _, tc := range tests {
		got, ok := ParseFacing(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseFacing(%q) = (%s, %v), want (%s, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMatchesFacing(t *testing.T) {
	if !matchesFacing("Integrated Front Camera", FacingFront) {
		t.Error("front camera name should match front facing")
	}
	if !matchesFacing("USB2.0 Rear Camera: video", FacingRear) {
		t.Error("rear camera name should match rear facing")
	}
	if matchesFacing("Generic Webcam", FacingFront) {
		t.Error("generic name should not match a specific facing")
	}
	if matchesFacing("Front Camera", FacingAuto) {
		t.Error("auto never matches by name")
	}
}
