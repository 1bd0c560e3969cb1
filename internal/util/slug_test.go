package util

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"McDouble", "mcdouble"},
		{"M&Ms Candies", "m-ms-candies"},
		{"Premium McWrap Chicken & Bacon", "premium-mcwrap-chicken-bacon"},
		{"  Egg  Whites  ", "egg-whites"},
		{"1% Low Fat Milk Jug", "1-low-fat-milk-jug"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.input); got != tc.want {
			t.Fatalf("Slugify(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}
