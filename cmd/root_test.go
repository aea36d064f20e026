package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/config"
)

func TestLogFileClosedAfterRun(t *testing.T) {
	prevFile, prevFormat, prevLevel := config.LogFile, config.LogFormat, config.LogLevel
	prevLogger := log.Default()
	t.Cleanup(func() {
		closeLogFile()
		config.LogFile, config.LogFormat, config.LogLevel = prevFile, prevFormat, prevLevel
		log.ResetDefault(prevLogger)
	})

	name := filepath.Join(t.TempDir(), "rsim.log")
	config.LogFile, config.LogFormat, config.LogLevel = name, "json", "info"
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())

	require.NoError(t, setupLogger(cmd))
	require.NotNil(t, logFile)
	f := logFile
	log.Info("race prepared")

	rootCmd.PersistentPostRun(cmd, nil)
	assert.Nil(t, logFile)
	_, err := f.WriteString("more\n")
	assert.ErrorIs(t, err, os.ErrClosed)

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(content), "race prepared")
}

func TestLogFileReplacedOnSetup(t *testing.T) {
	prevFile, prevLogger := config.LogFile, log.Default()
	t.Cleanup(func() {
		closeLogFile()
		config.LogFile = prevFile
		log.ResetDefault(prevLogger)
	})

	dir := t.TempDir()
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())

	config.LogFile = filepath.Join(dir, "first.log")
	require.NoError(t, setupLogger(cmd))
	first := logFile

	config.LogFile = filepath.Join(dir, "second.log")
	require.NoError(t, setupLogger(cmd))
	assert.NotSame(t, first, logFile)
	_, err := first.WriteString("more\n")
	assert.ErrorIs(t, err, os.ErrClosed)
}
