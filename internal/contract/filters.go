package contract

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/src-d/enry/v2"
)

// noiseFragments are matched against the lower-cased, slash-rooted path.
var noiseFragments = []string{
	// Config files
	".json", ".xml", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf",
	// Lock files
	"package-lock.json", "yarn.lock", "cargo.lock", "gemfile.lock", "composer.lock", "go.sum",
	// Generated/build files
	".min.js", ".min.css", ".d.ts", ".map",
	// Documentation
	".md", ".txt", ".rst", ".adoc",
	// Data files
	".csv", ".sql", ".db", ".sqlite",
	// Assets
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".woff", ".woff2", ".ttf", ".eot",
	// Vendor/dependencies
	"/vendor/", "/node_modules/", "/target/", "/build/", "/dist/", "/.git/",
	// Test fixtures
	"/fixtures/", "/mocks/", "/test/data/", "/testdata/",
}

// noiseNamePrefixes are matched against the lower-cased base name.
var noiseNamePrefixes = []string{
	"readme", "license", "changelog", "makefile", "dockerfile", "docker-compose",
	"vagrantfile", ".gitignore", ".dockerignore", ".eslintrc", ".prettierrc",
	"tsconfig.json", "jest.config.js", "webpack.config.js", "rollup.config.js",
}

// MatchesAny reports whether the slash path or its base name matches one of the globs.
// Invalid patterns never match.
func MatchesAny(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// ShouldInclude applies the exclude list first and then the include list.
// An empty include list admits everything that is not excluded.
func ShouldInclude(relPath string, includes, excludes []string) bool {
	if MatchesAny(relPath, excludes) {
		return false
	}
	if len(includes) == 0 {
		return true
	}
	return MatchesAny(relPath, includes)
}

// IsNoiseFile reports whether a file is configuration, data, documentation,
// an asset, a lockfile or vendored code rather than source worth measuring.
// Vendored code is recognized by explicit dependency roots only.
func IsNoiseFile(relPath string) bool {
	lower := "/" + strings.ToLower(relPath)
	for _, frag := range noiseFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	base := path.Base(lower)
	for _, prefix := range noiseNamePrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return enry.IsConfiguration(relPath) || enry.IsDotFile(relPath)
}
