package scrape

import (
	"testing"

	"github.com/traildex/docindex/config"
)

func TestRegistry_ResolvesKnownHosts(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widget", "GitHub"},
		{"https://www.npmjs.com/package/widget", "Npm"},
		{"https://pypi.org/project/widget", "PyPi"},
		{"file:///docs/guide.md", "LocalFile"},
		{"https://docs.acme.dev/guide", "GenericWeb"},
	}
	for _, c := range cases {
		got := r.Resolve(c.url).Name()
		if got != c.want {
			t.Errorf("Resolve(%s) = %s, want %s", c.url, got, c.want)
		}
	}
}

func TestGithubStrategy_ScopeNarrowsToRepo(t *testing.T) {
	s := githubStrategy{}
	scope := s.Scope(config.ScraperOptions{})
	seed := mustParse(t, "https://github.com/acme/widget")

	if !scope(seed, mustParse(t, "https://github.com/acme/widget/blob/main/README.md")) {
		t.Error("same repo should be in scope")
	}
	if scope(seed, mustParse(t, "https://github.com/other/project")) {
		t.Error("different repo should be out of scope")
	}
}

func TestGithubStrategy_FilterLinkExcludesIssuesAndPulls(t *testing.T) {
	s := githubStrategy{}
	if s.FilterLink(mustParse(t, "https://github.com/acme/widget/issues/5")) {
		t.Error("issue links should be filtered out")
	}
	if !s.FilterLink(mustParse(t, "https://github.com/acme/widget/blob/main/docs/guide.md")) {
		t.Error("doc links should pass the filter")
	}
}

func TestNpmStrategy_ScopeNarrowsToPackage(t *testing.T) {
	s := npmStrategy{}
	scope := s.Scope(config.ScraperOptions{})
	seed := mustParse(t, "https://www.npmjs.com/package/widget")

	if !scope(seed, mustParse(t, "https://www.npmjs.com/package/widget?activeTab=readme")) {
		t.Error("same package (with tab query) should be in scope")
	}
	if scope(seed, mustParse(t, "https://www.npmjs.com/package/other")) {
		t.Error("different package should be out of scope")
	}
}

func TestPypiStrategy_ScopeNarrowsToProject(t *testing.T) {
	s := pypiStrategy{}
	scope := s.Scope(config.ScraperOptions{})
	seed := mustParse(t, "https://pypi.org/project/widget")

	if !scope(seed, mustParse(t, "https://pypi.org/project/widget/#history")) {
		t.Error("same project should be in scope")
	}
	if scope(seed, mustParse(t, "https://pypi.org/project/other")) {
		t.Error("different project should be out of scope")
	}
}
