package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	v := Get()
	assert.Equal(t, runtime.Version(), v.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, v.Platform)
	assert.NotEmpty(t, v.Version)
}

func TestGetPrefersLdflags(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "1.2.3"
	assert.Equal(t, "1.2.3", Get().Version)
}

func TestFromBuildInfo(t *testing.T) {
	defaults := Info{Version: unset, GitCommit: "none", BuildTime: "unknown"}

	tests := []struct {
		name string
		bi   debug.BuildInfo
		want Info
	}{
		{
			name: "devel build without vcs",
			bi:   debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: defaults,
		},
		{
			name: "go install of a tagged module",
			bi:   debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: Info{Version: "v0.4.0", GitCommit: "none", BuildTime: "unknown"},
		},
		{
			name: "checkout with local changes",
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: Info{Version: unset, GitCommit: "0123456-dirty", BuildTime: "2026-01-02T03:04:05Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bi := tt.bi
			assert.Equal(t, tt.want, fromBuildInfo(defaults, &bi))
		})
	}
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now", GoVersion: "go1.23.1", Platform: "linux/amd64"}
	assert.Equal(t, "fbundle version 1.2.3 (commit: abc) built at now with go1.23.1 on linux/amd64", i.String())
}
