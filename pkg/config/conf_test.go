package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate_Defaults(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, modelFileName), c.ModelPath)
	assert.Equal(t, filepath.Join(dir, scalerFileName), c.ScalerPath)
	assert.Equal(t, filepath.Join(dir, referenceFileName), c.ReferencePath)
	require.NotNil(t, c.FallbackScore)
	assert.Equal(t, fallbackScoreDefault, *c.FallbackScore)
}

func TestReadOrCreate_ZeroFallback(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)

	c.FallbackScore = floatPtr(0)
	require.NoError(t, Save(dir, c))

	got, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, got.FallbackScore)
	assert.Equal(t, 0.0, *got.FallbackScore)
}

func TestReadOrCreate_MissingFallbackDefaults(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)

	c.FallbackScore = nil
	require.NoError(t, Save(dir, c))

	got, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, got.FallbackScore)
	assert.Equal(t, fallbackScoreDefault, *got.FallbackScore)
}

func TestReadOrCreate_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)

	c.ModelPath = "/opt/models/risk.xgb"
	c.ArtifactBaseURL = "https://artifacts.example.com/routerisk"
	require.NoError(t, Save(dir, c))

	got, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, c.ModelPath, got.ModelPath)
	assert.Equal(t, c.ArtifactBaseURL, got.ArtifactBaseURL)
}

func TestReadOrCreate_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	_, err := ReadOrCreate(dir)
	assert.NoError(t, err)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestSave_NilConfig(t *testing.T) {
	assert.Error(t, Save(t.TempDir(), nil))
}
