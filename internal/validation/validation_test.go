package validation

import "testing"

func TestIsNumericReading(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"plain integer", "21", true},
		{"plain decimal", "21.5", true},
		{"negative decimal", "-5.5", true},
		{"leading dot", ".5", true},
		{"tagged decimal", "3:21.5", true},
		{"tagged negative", "12:-0.25", true},
		{"empty", "", false},
		{"letters", "abc", false},
		{"exponent notation", "1e5", false},
		{"infinity", "Inf", false},
		{"nan", "NaN", false},
		{"embedded dash", "2-1", false},
		{"double dot", "1.2.3", false},
		{"tagged garbage", "3:zz", false},
		{"non-numeric tag", "abc:21.5", false},
		{"bare colon prefix", ":21.5", false},
		{"trailing unit", "21.5C", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNumericReading(tt.payload); got != tt.want {
				t.Errorf("IsNumericReading(%q) = %v, want %v", tt.payload, got, tt.want)
			}
		})
	}
}

func TestIsBooleanReading(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"lower true", "true", true},
		{"lower false", "false", true},
		{"mixed case", "True", true},
		{"upper", "FALSE", true},
		{"tagged", "7:true", true},
		{"tagged mixed", "7:False", true},
		{"numeric", "1", false},
		{"empty", "", false},
		{"garbage", "maybe", false},
		{"non-numeric tag", "x:true", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBooleanReading(tt.payload); got != tt.want {
				t.Errorf("IsBooleanReading(%q) = %v, want %v", tt.payload, got, tt.want)
			}
		})
	}
}

func TestValueInRange(t *testing.T) {
	tests := []struct {
		name string
		s    string
		min  float64
		want bool
	}{
		{"above min", "21.5", 0, true},
		{"at min", "0", 0, true},
		{"below min", "-1", 0, false},
		{"sub-zero above floor", "-5.5", -40, true},
		{"below floor", "-41", -40, false},
		{"humidity upper edge", "100", 0, true},
		{"non-numeric", "abc", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueInRange(tt.s, tt.min); got != tt.want {
				t.Errorf("ValueInRange(%q, %v) = %v, want %v", tt.s, tt.min, got, tt.want)
			}
		})
	}
}

func TestSplitTag(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantID     int64
		wantValue  string
		wantTagged bool
	}{
		{"tagged", "3:21.5", 3, "21.5", true},
		{"untagged", "21.5", 0, "21.5", false},
		{"non-numeric prefix", "abc:true", 0, "abc:true", false},
		{"empty prefix", ":1", 0, ":1", false},
		{"value with colon", "3:a:b", 3, "a:b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, value, tagged := SplitTag(tt.payload)
			if id != tt.wantID || value != tt.wantValue || tagged != tt.wantTagged {
				t.Errorf("SplitTag(%q) = (%d, %q, %v), want (%d, %q, %v)",
					tt.payload, id, value, tagged, tt.wantID, tt.wantValue, tt.wantTagged)
			}
		})
	}
}
