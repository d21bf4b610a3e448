package bybit

import "testing"

func TestSignKnownVectors(t *testing.T) {
	cases := []struct {
		secret  string
		expires int64
		want    string
	}{
		{"test-secret", 1700000000000, "5e1a6810262f270b783cf759f856aadee413643be3c03d0fb89dd22261e41df0"},
		{"another-secret", 1700000000000, "36c622d65dad83552644b5a797afa846e60b327e40969d43c2d5f761b39010e8"},
		{"test-secret", 1700000010000, "977d2a1068009c263a4e3e15a2838ccaf62d1eda4ca2ff08b5456910b481b58b"},
	}
	for _, c := range cases {
		if got := Sign(c.secret, c.expires); got != c.want {
			t.Errorf("Sign(%q, %d) = %s, want %s", c.secret, c.expires, got, c.want)
		}
	}
}

func TestSignIsDeterministic(t *testing.T) {
	if Sign("s", 1) != Sign("s", 1) {
		t.Fatal("same inputs produced different signatures")
	}
	if Sign("s", 1) == Sign("s", 2) {
		t.Fatal("different expiries produced the same signature")
	}
}
