package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldInclude(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		includes []string
		excludes []string
		want     bool
	}{
		{
			name: "no patterns",
			path: "src/main.go",
			want: true,
		},
		{
			name:     "exclude directory glob",
			path:     "vendor/github.com/lib/file.go",
			excludes: []string{"vendor/**"},
			want:     false,
		},
		{
			name:     "exclude matches base name",
			path:     "src/file.min.js",
			excludes: []string{"*.min.js"},
			want:     false,
		},
		{
			name:     "exclude wins over include",
			path:     "core/unit_test.go",
			includes: []string{"*.go"},
			excludes: []string{"*_test.go"},
			want:     false,
		},
		{
			name:     "include by extension",
			path:     "core/engine.go",
			includes: []string{"*.go"},
			want:     true,
		},
		{
			name:     "include rejects other files",
			path:     "web/app.ts",
			includes: []string{"*.go", "cmd/**"},
			want:     false,
		},
		{
			name:     "include doublestar",
			path:     "cmd/madu/main.go",
			includes: []string{"cmd/**"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldInclude(tt.path, tt.includes, tt.excludes))
		})
	}
}

func TestMatchesAny_InvalidPatternNeverMatches(t *testing.T) {
	assert.False(t, MatchesAny("a[b.go", []string{"a[b"}))
}

func TestIsNoiseFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", false},
		{"core/engine.rs", false},
		{"src/mapper.go", false},
		{"package-lock.json", true},
		{"config/settings.yaml", true},
		{"docs/guide.md", true},
		{"assets/logo.png", true},
		{"dist/bundle.min.js", true},
		{"node_modules/react/index.js", true},
		{"pkg/testdata/sample.go", true},
		{"README", true},
		{"Makefile", true},
		{"LICENSE-MIT", true},
		{"Dockerfile.dev", true},
		{"vendor/github.com/x/y.go", true},
		{".env", true},
		{"scripts/.eslintrc.cjs", true},
		{"internal/cache/store.go", false},
		{"cache/lru.go", false},
		{"pkg/deps/x.go", false},
		{"external/x.go", false},
		{"third_party/x.go", false},
		{"gradlew", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNoiseFile(tt.path))
		})
	}
}
