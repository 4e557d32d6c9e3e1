package stats

import "testing"

func TestEncodeName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Soldier_01", "Soldier_01"},
		{"a*b-c.d", "a*b-c.d"},
		{"two words", "two%20words"},
		{"tilde~", "tilde%7E"},
		{"[TAG]name", "%5BTAG%5Dname"},
		{"a/b?c&d=e", "a%2Fb%3Fc%26d%3De"},
		{"Émile", "%C3%89mile"},
		{"日本", "%E6%97%A5%E6%9C%AC"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := EncodeName(tc.input); got != tc.expected {
			t.Fatalf("EncodeName(%q): expected %s, got %s", tc.input, tc.expected, got)
		}
	}
}
