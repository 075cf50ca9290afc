package kpi

import "testing"

func TestEnergy(t *testing.T) {
	cases := []struct {
		name  string
		count int
		watts float64
		want  float64
	}{
		{"macro class", 10, 130.0, 1300.0},
		{"testbed class", 4, 10.5, 42.0},
		{"all sites off", 0, 130.0, 0.0},
	}
	for _, tc := range cases {
		if got := Energy(tc.count, tc.watts); got != tc.want {
			t.Errorf("%s: Energy(%d, %v) = %v, want %v", tc.name, tc.count, tc.watts, got, tc.want)
		}
	}
}
