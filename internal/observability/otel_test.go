package observability

import "testing"

func TestSampleRatio(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, defaultSampleRatio},
		{-1, defaultSampleRatio},
		{0.5, 0.5},
		{3, 1},
	}
	for _, c := range cases {
		if got := SampleRatio(c.in); got != c.want {
			t.Fatalf("SampleRatio(%v): want=%v got=%v", c.in, c.want, got)
		}
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" a=1, bad ,b = 2,=x,c=")
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("headers: unexpected %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty: want nil")
	}
}
