// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.
package corelog

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithFileLogging(t *testing.T) {
	dir := t.TempDir()

	config := Config{}.Default()
	config.DisableConsoleLog = true
	config.FileLoggingEnabled = true
	config.Directory = filepath.Join(dir, "log")

	logger := New("test", zerolog.InfoLevel, config)
	logger.Info().Msg("hello")

	if _, err := os.Stat(filepath.Join(config.Directory, config.Filename)); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

// TestNewWithUnwritableLogDirectory ensures a logger whose log directory
// cannot be created still works: the file writer is dropped rather than
// poisoning the writer set and panicking on first use.
func TestNewWithUnwritableLogDirectory(t *testing.T) {
	dir := t.TempDir()

	// A regular file where the directory path expects a directory makes
	// MkdirAll fail.
	blocker := filepath.Join(dir, "blocker")
	if err := ioutil.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	config := Config{}.Default()
	config.DisableConsoleLog = true
	config.FileLoggingEnabled = true
	config.Directory = filepath.Join(blocker, "log")

	logger := New("test", zerolog.InfoLevel, config)
	logger.Info().Msg("must not panic")
}
