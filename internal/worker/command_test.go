package worker

import (
	"testing"

	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantLMSDefault = []string{
	"celery",
	"--app=lms.celery",
	"worker",
	"--loglevel=info",
	"--concurrency=1",
	"--hostname=edx.lms.core.default.%h",
	"--queues=edx.lms.core.default,edx.lms.core.high,edx.lms.core.high_mem",
	"--max-tasks-per-child=100",
	"--prefetch-multiplier=1",
	"--without-gossip",
	"--without-mingle",
}

var wantCMSDefault = []string{
	"celery",
	"--app=cms.celery",
	"worker",
	"--loglevel=info",
	"--concurrency=1",
	"--hostname=edx.cms.core.default.%h",
	"--queues=edx.cms.core.default,edx.cms.core.high,edx.cms.core.low",
	"--max-tasks-per-child=100",
	"--prefetch-multiplier=1",
	"--without-gossip",
	"--without-mingle",
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"lms": RoleLMS, "CMS": RoleCMS, " Lms ": RoleLMS} {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("studio")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestBuildDefaults(t *testing.T) {
	empty := settings.Values{}

	assert.Equal(t, wantLMSDefault, Build(RoleLMS, ResolveOptions(RoleLMS, empty)))
	assert.Equal(t, wantCMSDefault, Build(RoleCMS, ResolveOptions(RoleCMS, empty)))
}

func TestBuildConcurrencyOverride(t *testing.T) {
	src := settings.Values{settings.KeyLMSConcurrency: 4}

	got := Build(RoleLMS, ResolveOptions(RoleLMS, src))

	want := append([]string(nil), wantLMSDefault...)
	want[4] = "--concurrency=4"
	assert.Equal(t, want, got)

	// The CMS command does not read LMS settings.
	assert.Equal(t, wantCMSDefault, Build(RoleCMS, ResolveOptions(RoleCMS, src)))
}

func TestBuildAlwaysHasFixedShape(t *testing.T) {
	inputs := []settings.Values{
		{},
		{settings.KeyLMSQueues: []any{"a", "b"}, settings.KeyCMSQueues: "x"},
		{settings.KeyLMSConcurrency: "not-a-number", settings.KeyCMSMaxTasksPerChild: 2.5},
		{settings.KeyLMSPrefetchMultiplier: nil, settings.KeyCMSConcurrency: -3},
	}

	for _, in := range inputs {
		for _, r := range Roles() {
			got := Build(r, ResolveOptions(r, in))
			require.Len(t, got, TokenCount)
			assert.Equal(t, "celery", got[0])
			assert.Equal(t, "--app="+ProfileFor(r).App, got[1])
			assert.Equal(t, "worker", got[2])
			assert.Equal(t, "--loglevel=info", got[3])
			assert.Contains(t, got[4], "--concurrency=")
			assert.Equal(t, "--hostname="+ProfileFor(r).Hostname, got[5])
			assert.Contains(t, got[6], "--queues=")
			assert.Contains(t, got[7], "--max-tasks-per-child=")
			assert.Contains(t, got[8], "--prefetch-multiplier=")
			assert.Equal(t, "--without-gossip", got[9])
			assert.Equal(t, "--without-mingle", got[10])
		}
	}
}

func TestBuildFormatsValues(t *testing.T) {
	src := settings.Values{
		settings.KeyCMSQueues:             []any{"edx.cms.core.default", "edx.cms.core.high"},
		settings.KeyCMSConcurrency:        "3",
		settings.KeyCMSPrefetchMultiplier: 4.0,
	}

	got := Build(RoleCMS, ResolveOptions(RoleCMS, src))
	assert.Equal(t, "--concurrency=3", got[4])
	assert.Equal(t, "--queues=edx.cms.core.default,edx.cms.core.high", got[6])
	assert.Equal(t, "--prefetch-multiplier=4", got[8])
}

func TestCommandFilterDiscardsInput(t *testing.T) {
	src := settings.NewStore()
	f := &CommandFilter{Role: RoleLMS, Source: src}

	assert.Equal(t, wantLMSDefault, f.Transform(nil))
	assert.Equal(t, wantLMSDefault, f.Transform([]string{"anything", "--else"}))
	assert.Equal(t, wantLMSDefault, f.Transform(HostDefault(RoleLMS)))
}

func TestCommandFilterReadsStoreAtCallTime(t *testing.T) {
	src := settings.NewStore()
	f := &CommandFilter{Role: RoleCMS, Source: src}
	before := f.Transform(nil)

	src.OnConfigLoaded(map[string]any{settings.KeyCMSMaxTasksPerChild: 50})
	after := f.Transform(nil)

	assert.Equal(t, "--max-tasks-per-child=100", before[7])
	assert.Equal(t, "--max-tasks-per-child=50", after[7])
}

func TestHostDefault(t *testing.T) {
	lms := HostDefault(RoleLMS)
	assert.Equal(t, "--app=lms.celery", lms[1])
	assert.Equal(t, "--exclude-queues=edx.cms.core.default", lms[len(lms)-1])

	cms := HostDefault(RoleCMS)
	assert.Equal(t, "--exclude-queues=edx.lms.core.default", cms[len(cms)-1])
	assert.NotEqual(t, wantCMSDefault, cms)
}
