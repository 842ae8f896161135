package assert

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Equal[T comparable](t *testing.T, actual, expected T) {
	t.Helper()

	if actual != expected {
		t.Errorf("got: %v; want %v", actual, expected)
	}
}

func StringContains(t *testing.T, actual, expectedSubstring string) {
	t.Helper()

	if !strings.Contains(actual, expectedSubstring) {
		t.Errorf("got: %q; expected to contain: %q", actual, expectedSubstring)
	}
}

func NilError(t *testing.T, actual error) {
	t.Helper()

	if actual != nil {
		t.Errorf("got: %v; expected: nil", actual)
	}
}

// ErrorIs fails unless errors.Is(actual, target).
func ErrorIs(t *testing.T, actual, target error) {
	t.Helper()

	if !errors.Is(actual, target) {
		t.Errorf("got: %v; want error matching %v", actual, target)
	}
}

func SliceEqual[T comparable](t *testing.T, actual, expected []T) {
	t.Helper()

	if !slices.Equal(actual, expected) {
		t.Errorf("got: %v; want %v", actual, expected)
	}
}

func IntPtrEqual(t *testing.T, actual *int, expected *int) {
	t.Helper()

	switch {
	case actual == nil && expected == nil:
	case actual == nil || expected == nil:
		t.Errorf("got: %s; want %s", formatIntPtr(actual), formatIntPtr(expected))
	case *actual != *expected:
		t.Errorf("got: %d; want %d", *actual, *expected)
	}
}

// DeepEqual reports a cmp diff when actual and expected differ.
func DeepEqual(t *testing.T, actual, expected any, opts ...cmp.Option) {
	t.Helper()

	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func formatIntPtr(i *int) string {
	if i == nil {
		return "nil"
	}
	return strconv.Itoa(*i)
}
