package vcs

import (
	"errors"
	"slices"
	"testing"
)

func TestIsMissingRef(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{
			"clone unknown branch",
			&Error{Args: []string{"clone"}, Output: "warning: Could not find remote branch v9.9.9 to clone.\nfatal: Remote branch v9.9.9 not found in upstream origin", Err: errors.New("exit status 128")},
			true,
		},
		{
			"checkout unknown tag",
			&Error{Args: []string{"checkout", "v9"}, Output: "error: pathspec 'v9' did not match any file(s) known to git", Err: errors.New("exit status 1")},
			true,
		},
		{
			"fetch unknown ref",
			&Error{Args: []string{"fetch"}, Output: "fatal: couldn't find remote ref v9", Err: errors.New("exit status 128")},
			true,
		},
		{
			"network failure",
			&Error{Args: []string{"clone"}, Output: "fatal: unable to access 'https://host/x.git/': Could not resolve host: host", Err: errors.New("exit status 128")},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMissingRef(tt.err); got != tt.want {
				t.Errorf("IsMissingRef() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 128")
	err := &Error{Args: []string{"fetch", "origin"}, Output: "fatal", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Error should unwrap to the underlying exec error")
	}
}

func TestNewExecDefaults(t *testing.T) {
	g := NewExec("", nil)
	if g.Binary != "git" {
		t.Errorf("Binary = %q, want git", g.Binary)
	}
	if g.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestCheckoutArgs(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		opts CheckoutOptions
		want []string
	}{
		{"plain", "v1.0.0", CheckoutOptions{}, []string{"checkout", "v1.0.0"}},
		{"reset branch", "refs/tags/v1.0.0", CheckoutOptions{Branch: "release/v1.0.0"}, []string{"checkout", "-B", "release/v1.0.0", "refs/tags/v1.0.0"}},
		{"detach", "HEAD", CheckoutOptions{Detach: true}, []string{"checkout", "--detach", "HEAD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkoutArgs(tt.ref, tt.opts); !slices.Equal(got, tt.want) {
				t.Errorf("checkoutArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
