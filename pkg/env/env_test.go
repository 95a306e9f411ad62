package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("TIMBERMILL_TEST_VALUE", "  ")
	if got := Get("TIMBERMILL_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("TIMBERMILL_TEST_VALUE", " set ")
	if got := Get("TIMBERMILL_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestFirst(t *testing.T) {
	t.Setenv("TIMBERMILL_TEST_A", "")
	t.Setenv("TIMBERMILL_TEST_B", "b")
	if got := First("TIMBERMILL_TEST_A", "TIMBERMILL_TEST_B"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := First("TIMBERMILL_TEST_A"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
