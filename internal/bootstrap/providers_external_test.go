package bootstrap_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/livewidgetd/internal/bootstrap"
	domainconfig "github.com/kodflow/livewidgetd/internal/domain/config"
)

// TestProvideWorkerBinPath_CoversDefaultABIAndEveryPackageABI tests that
// the ABI-to-binary-path table has one entry for the default ABI and one
// for every distinct ABI referenced by a configured package.
//
// Params:
//   - t: the testing context.
func TestProvideWorkerBinPath_CoversDefaultABIAndEveryPackageABI(t *testing.T) {
	cfg := &domainconfig.Config{
		DefaultABI: "c",
		Packages: []domainconfig.PackageSpec{
			{Pkgname: "live-html", ABI: "html"},
			{Pkgname: "live-html2", ABI: "html"},
		},
	}

	table := bootstrap.ProvideWorkerBinPath(cfg)

	require.Len(t, table, 2)
	assert.Contains(t, table, "c")
	assert.Contains(t, table, "html")
	assert.NotEmpty(t, table["c"])
	assert.NotEmpty(t, table["html"])
}

// TestProvideLogger_NoFilePath_OnlyConsole tests that an empty
// SlaveLogPath yields a working logger backed by the console alone.
//
// Params:
//   - t: the testing context.
func TestProvideLogger_NoFilePath_OnlyConsole(t *testing.T) {
	logger, err := bootstrap.ProvideLogger(&domainconfig.Config{})

	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("", "x", "hello", nil) })
	assert.NoError(t, logger.Close())
}

// TestProvideLogger_WithFilePath_WritesMasterLog tests that a configured
// SlaveLogPath causes master.log to be created under it.
//
// Params:
//   - t: the testing context.
func TestProvideLogger_WithFilePath_WritesMasterLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := bootstrap.ProvideLogger(&domainconfig.Config{SlaveLogPath: dir})
	require.NoError(t, err)

	logger.Info("", "startup", "master started", nil)
	require.NoError(t, logger.Close())

	assert.FileExists(t, filepath.Join(dir, "master.log"))
}

// TestProvideLogger_InvalidPath_ReturnsError tests that an unwritable
// SlaveLogPath surfaces the underlying file-open error.
//
// Params:
//   - t: the testing context.
func TestProvideLogger_InvalidPath_ReturnsError(t *testing.T) {
	_, err := bootstrap.ProvideLogger(&domainconfig.Config{
		SlaveLogPath: filepath.Join(t.TempDir(), "missing-subdir", "nested"),
	})

	assert.Error(t, err)
}
