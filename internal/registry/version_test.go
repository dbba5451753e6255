package registry

import (
	"errors"
	"slices"
	"testing"
)

func TestAddVersion(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		add      string
		want     []string
	}{
		{"empty", nil, "1.0.0", []string{"1.0.0"}},
		{"insert newest", []string{"1.0.0"}, "2.0.0", []string{"2.0.0", "1.0.0"}},
		{"insert middle", []string{"3.0.0", "1.0.0"}, "2.0.0", []string{"3.0.0", "2.0.0", "1.0.0"}},
		{"already present", []string{"2.0.0", "1.0.0"}, "1.0.0", []string{"2.0.0", "1.0.0"}},
		{"unsorted input", []string{"1.0.0", "1.10.0", "1.2.0"}, "1.3.0", []string{"1.10.0", "1.3.0", "1.2.0", "1.0.0"}},
		{"collapses duplicates", []string{"1.0.0", "1.0.0"}, "1.0.0", []string{"1.0.0"}},
		{"prerelease below release", []string{"1.0.0"}, "1.0.0-beta", []string{"1.0.0", "1.0.0-beta"}},
		{"v prefix tolerated", []string{"v1.0.0"}, "1.1.0", []string{"1.1.0", "v1.0.0"}},
		{"unparseable sorts last", []string{"0.0.1"}, "nightly", []string{"0.0.1", "nightly"}},
		{"unparseable lexicographic", []string{"alpha"}, "beta", []string{"beta", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddVersion(tt.existing, tt.add)
			if !slices.Equal(got, tt.want) {
				t.Errorf("AddVersion(%v, %q) = %v, want %v", tt.existing, tt.add, got, tt.want)
			}
		})
	}
}

func TestAddVersionProperties(t *testing.T) {
	lists := [][]string{
		nil,
		{"1.0.0"},
		{"0.1.0", "2.0.0", "1.5.3", "10.0.0"},
		{"2.0.0-rc.1", "2.0.0", "1.9.9"},
		{"x", "1.0.0", "y"},
	}
	candidates := []string{"1.0.0", "2.0.0", "0.0.1", "2.0.0-rc.1", "z"}

	for _, vs := range lists {
		for _, v := range candidates {
			got := AddVersion(vs, v)

			count := 0
			for _, g := range got {
				if g == v {
					count++
				}
			}
			if count != 1 {
				t.Errorf("AddVersion(%v, %q) contains %q %d times", vs, v, v, count)
			}

			for i := 1; i < len(got); i++ {
				if CompareVersions(got[i-1], got[i]) < 0 {
					t.Errorf("AddVersion(%v, %q) = %v is not sorted descending", vs, v, got)
					break
				}
			}
		}
	}
}

func TestAddVersionDoesNotMutateInput(t *testing.T) {
	in := []string{"1.0.0", "3.0.0"}
	_ = AddVersion(in, "2.0.0")
	if !slices.Equal(in, []string{"1.0.0", "3.0.0"}) {
		t.Errorf("input mutated: %v", in)
	}
}

func TestVersionFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"v1.2.0", "1.2.0"},
		{"1.2.0", "1.2.0"},
		{"release-2.0.0", "2.0.0"},
		{"v3.0.0-beta.1", "3.0.0-beta.1"},
	}
	for _, tt := range tests {
		if got := VersionFromTag(tt.tag); got != tt.want {
			t.Errorf("VersionFromTag(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestResolveRequestedVersion(t *testing.T) {
	entry := &Entry{
		Name:          "steamer-example",
		Versions:      []string{"3.0.0", "2.0.0"},
		LatestVersion: "3.0.0",
	}

	t.Run("unknown kit without url", func(t *testing.T) {
		_, err := ResolveRequestedVersion(nil, "", "")
		if !errors.Is(err, ErrKitNotFound) {
			t.Errorf("error = %v, want ErrKitNotFound", err)
		}
	})

	t.Run("unknown kit with url", func(t *testing.T) {
		res, err := ResolveRequestedVersion(nil, "https://github.com/steamerjs/steamer-example.git", "")
		if err != nil {
			t.Fatal(err)
		}
		if !res.NeedsFetch || res.Version != "" {
			t.Errorf("got %+v, want fetch with no version yet", res)
		}
	})

	t.Run("latest", func(t *testing.T) {
		res, err := ResolveRequestedVersion(entry, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if res.Version != "3.0.0" || res.NeedsFetch {
			t.Errorf("got %+v, want 3.0.0 without fetch", res)
		}
	})

	t.Run("known tag", func(t *testing.T) {
		res, _ := ResolveRequestedVersion(entry, "", "v2.0.0")
		if res.Version != "2.0.0" || res.Tag != "v2.0.0" || res.NeedsFetch {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		res, _ := ResolveRequestedVersion(entry, "", "v4.0.0")
		if !res.NeedsFetch {
			t.Errorf("got %+v, want NeedsFetch", res)
		}
	})
}
