package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{" on ", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}
	for _, tc := range cases {
		t.Setenv("TRIAGEFLOW_TEST_BOOL", tc.value)
		if got := ParseBoolEnv("TRIAGEFLOW_TEST_BOOL", tc.def); got != tc.expected {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tc.value, tc.def, got, tc.expected)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	cases := []struct {
		value    string
		def      int
		expected int
	}{
		{"", 7, 7},
		{"42", 7, 42},
		{" 13 ", 7, 13},
		{"-5", 7, -5},
		{"4.2", 7, 7},
		{"garbage", 7, 7},
	}
	for _, tc := range cases {
		t.Setenv("TRIAGEFLOW_TEST_INT", tc.value)
		if got := ParseIntEnv("TRIAGEFLOW_TEST_INT", tc.def); got != tc.expected {
			t.Errorf("ParseIntEnv(%q, %d) = %d, want %d", tc.value, tc.def, got, tc.expected)
		}
	}
}
