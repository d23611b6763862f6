package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeTemp(t, `
title: demo
patterns:
  main: "bd sd"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Cps)
	assert.Equal(t, 100, cfg.LookAheadMs)
	assert.Equal(t, 50, cfg.IntervalMs)
	assert.Equal(t, "main", cfg.Main)

	src, err := cfg.MainSource()
	require.NoError(t, err)
	assert.Equal(t, "bd sd", src)
}

func TestPatternSourceAcceptsList(t *testing.T) {
	path := writeTemp(t, `
patterns:
  main:
    - "bd sd"
    - "hh*4"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	src, err := cfg.MainSource()
	require.NoError(t, err)
	assert.Equal(t, "bd sd hh*4", src)
}

func TestMainSourceMissing(t *testing.T) {
	path := writeTemp(t, `patterns: {}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	_, err = cfg.MainSource()
	assert.Error(t, err)
}
