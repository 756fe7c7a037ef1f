package urlclass

import "testing"

func TestIsURL(t *testing.T) {
	c := New("katb.in")
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/x", true},
		{"http://example.com", true},
		{"  https://example.com/trailing  ", true},
		{"mailto:a@b.com", true},
		{"mailto:a@b.com?subject=hi", true},
		{"hello world", false},
		{"", false},
		{"ftp://example.com", false},
		{"https://localhost/path", false},
		{"https://sub.katb.in/path", false},
		{"https://KATB.IN/path", false},
		{"https://katb.in", false},
		{"mailto:someone@katb.in", false},
		{"mailto:nobody", false},
		{"example.com/no-scheme", false},
		{"https://example.com/x\nand then some text", false},
		{"https://exa mple.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := c.IsURL(tc.in); got != tc.want {
				t.Errorf("IsURL(%q) = %v; want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsURLWithoutExclusion(t *testing.T) {
	var c Classifier
	if !c.IsURL("https://sub.katb.in/path") {
		t.Error("empty exclusion should accept every dotted host")
	}
}
