package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fentz26/celery-worker-patch/internal/hooks"
	"github.com/fentz26/celery-worker-patch/internal/models"
	"github.com/fentz26/celery-worker-patch/internal/plugin"
	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/fentz26/celery-worker-patch/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempState points the global flags at a scratch directory and restores
// them afterwards.
func useTempState(t *testing.T, sets ...string) string {
	t.Helper()
	dir := t.TempDir()

	oldConfig, oldSets, oldDB := configPath, assignments, dbPath
	oldJSON, oldRecord := commandJSON, commandRecord
	t.Cleanup(func() {
		configPath, assignments, dbPath = oldConfig, oldSets, oldDB
		commandJSON, commandRecord = oldJSON, oldRecord
		logger.SetOutput(io.Discard)
	})

	configPath = filepath.Join(dir, "config.yml")
	dbPath = filepath.Join(dir, "history.db")
	assignments = sets
	logger.SetOutput(io.Discard)
	return dir
}

func capture(cmd *cobra.Command) *bytes.Buffer {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return &buf
}

func TestRunCommandDefaults(t *testing.T) {
	useTempState(t)
	out := capture(commandCmd)

	require.NoError(t, runCommand(commandCmd, []string{"lms"}))
	assert.Equal(t,
		"celery --app=lms.celery worker --loglevel=info --concurrency=1 --hostname=edx.lms.core.default.%h "+
			"--queues=edx.lms.core.default,edx.lms.core.high,edx.lms.core.high_mem "+
			"--max-tasks-per-child=100 --prefetch-multiplier=1 --without-gossip --without-mingle\n",
		out.String())
}

func TestRunCommandJSONWithOverride(t *testing.T) {
	useTempState(t, "CELERY_WORKER_PATCH_CMS_CONCURRENCY=4")
	commandJSON = true
	out := capture(commandCmd)

	require.NoError(t, runCommand(commandCmd, []string{"CMS"}))

	var tokens []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &tokens))
	require.Len(t, tokens, 11)
	assert.Equal(t, "--app=cms.celery", tokens[1])
	assert.Equal(t, "--concurrency=4", tokens[4])
}

func TestRunCommandUnknownRole(t *testing.T) {
	useTempState(t)
	capture(commandCmd)
	assert.Error(t, runCommand(commandCmd, []string{"studio"}))
}

func TestRunCommandRecordsHistory(t *testing.T) {
	useTempState(t)
	commandRecord = true
	capture(commandCmd)

	require.NoError(t, runCommand(commandCmd, []string{"lms"}))
	require.NoError(t, runCommand(commandCmd, []string{"cms"}))

	s, err := store.New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	renders, err := s.ListRenders("", 0)
	require.NoError(t, err)
	assert.Len(t, renders, 2)
}

func TestConfigSaveThenShow(t *testing.T) {
	useTempState(t, "CELERY_WORKER_PATCH_LMS_QUEUES=edx.lms.core.default")
	saveOut := capture(configSaveCmd)
	require.NoError(t, runConfigSave(configSaveCmd, nil))
	assert.Contains(t, saveOut.String(), "Saved 1 setting(s)")

	saved, err := settings.LoadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "edx.lms.core.default", saved[settings.KeyLMSQueues])

	// The saved file is picked up without any --set.
	assignments = nil
	out := capture(commandCmd)
	require.NoError(t, runCommand(commandCmd, []string{"lms"}))
	assert.Contains(t, out.String(), "--queues=edx.lms.core.default ")

	showOut := capture(configShowCmd)
	require.NoError(t, runConfigShow(configShowCmd, nil))
	for _, line := range strings.Split(showOut.String(), "\n") {
		if strings.HasPrefix(line, settings.KeyLMSQueues) {
			assert.Contains(t, line, "override")
		}
		if strings.HasPrefix(line, settings.KeyCMSQueues) {
			assert.Contains(t, line, "default")
		}
	}
}

func TestConfigSaveRequiresAssignments(t *testing.T) {
	useTempState(t)
	capture(configSaveCmd)
	assert.Error(t, runConfigSave(configSaveCmd, nil))
}

func TestConfigCheck(t *testing.T) {
	useTempState(t)
	out := capture(configCheckCmd)
	require.NoError(t, runConfigCheck(configCheckCmd, nil))
	assert.Contains(t, out.String(), "look valid")

	assignments = []string{"CELERY_WORKER_PATCH_LMS_CONCURRENCY=zero"}
	out = capture(configCheckCmd)
	assert.Error(t, runConfigCheck(configCheckCmd, nil))
	assert.Contains(t, out.String(), settings.KeyLMSConcurrency)
}

func TestPrintSettingsListsUnknownKeys(t *testing.T) {
	values := settings.Defaults()
	values[settings.Prefix+"EXTRA"] = "x"

	var buf bytes.Buffer
	require.NoError(t, printSettings(&buf, "Settings", values, nil))

	out := buf.String()
	for _, k := range settings.Keys() {
		assert.Contains(t, out, k)
	}
	assert.Contains(t, out, settings.Prefix+"EXTRA")
}

func TestPrintHooks(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := hooks.NewRegistry(log)
	require.NoError(t, r.Install(plugin.New(nil, log)))

	var buf bytes.Buffer
	require.NoError(t, printHooks(&buf, r))

	out := buf.String()
	assert.Contains(t, out, string(hooks.ConfigLoaded))
	assert.Contains(t, out, string(hooks.LMSWorkerCommand))
	assert.Contains(t, out, string(hooks.CMSWorkerCommand))
	assert.Contains(t, out, plugin.Name)
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Contains(t, buf.String(), "No recorded renders")

	buf.Reset()
	require.NoError(t, printHistory(&buf, []models.Render{{
		Role:       "cms",
		Tokens:     []string{"celery", "--app=cms.celery", "worker"},
		ConfigHash: "0123456789abcdef",
		CreatedAt:  time.Now(),
	}}))
	assert.Contains(t, buf.String(), "0123456789ab ")
	assert.Contains(t, buf.String(), "celery --app=cms.celery worker")
}

func TestVersion(t *testing.T) {
	out := capture(versionCmd)
	runVersion(versionCmd, nil)
	assert.Contains(t, out.String(), settings.Version)
}
