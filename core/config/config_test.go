package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"perceptron/common"
)

func testCmd(t *testing.T, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().Float64P("learning-rate", "l", 1.0, "")
	cmd.Flags().IntP("epochs", "e", 10, "")
	cmd.Flags().Bool("reinit", false, "")
	cmd.Flags().StringP("data", "d", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

const sampleConfig = `
train:
  learning_rate: 0.25
  epochs: 40
data:
  train_path: /tmp/train.csv
  has_header: true
  delimiter: ";"
log:
  brief_mode: ""
  path: ""
  level: warn
  module_level:
    perceptron: debug
`

func TestInitLocalConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perceptron_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	lc, err := InitLocalConfig(testCmd(t, "-c", path))
	require.NoError(t, err)
	assert.Equal(t, 0.25, lc.Train.LearningRate)
	assert.Equal(t, 40, lc.Train.Epochs)
	assert.False(t, lc.Train.Reinitialize)
	assert.Equal(t, "/tmp/train.csv", lc.Data.TrainPath)
	assert.True(t, lc.Data.HasHeader)
	assert.Equal(t, ';', lc.Comma())
	assert.Equal(t, path, lc.Source)

	logConfig, err := lc.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, common.LEVEL_WARN, logConfig.LogLevel)
	assert.Equal(t, common.LEVEL_DEBUG, logConfig.ModuleSpecialLevel[common.MODULE_PERCEPTRON])
}

func TestInitLocalConfigSearchPathAndFlags(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "perceptron_config.yaml"), []byte(sampleConfig), 0644))
	t.Setenv(EnvCfgPath, dir)

	lc, err := InitLocalConfig(testCmd(t, "-e", "3", "--reinit"))
	require.NoError(t, err)
	assert.Equal(t, 3, lc.Train.Epochs)
	assert.True(t, lc.Train.Reinitialize)
	assert.Equal(t, 0.25, lc.Train.LearningRate)
}

func TestInitLocalConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv(EnvCfgPath, t.TempDir())
	t.Setenv("PERCEPTRON_DATA_TRAIN_PATH", "env.csv")

	lc, err := InitLocalConfig(testCmd(t))
	require.NoError(t, err)
	assert.Equal(t, 1.0, lc.Train.LearningRate)
	assert.Equal(t, 10, lc.Train.Epochs)
	assert.Equal(t, "env.csv", lc.Data.TrainPath)
	assert.Equal(t, ',', lc.Comma())
	assert.Empty(t, lc.Source)
}

func TestInitLocalConfigErrors(t *testing.T) {
	_, err := InitLocalConfig(testCmd(t, "-c", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)

	t.Setenv(EnvCfgPath, t.TempDir())
	_, err = InitLocalConfig(testCmd(t, "-l", "0"))
	require.Error(t, err)

	_, err = InitLocalConfig(testCmd(t, "--epochs=-2"))
	require.Error(t, err)
}

func TestLogConfigErrors(t *testing.T) {
	lc := &LocalConfig{Log: LogConfig{BriefMode: "loud"}}
	_, err := lc.LogConfig()
	require.Error(t, err)

	lc = &LocalConfig{Log: LogConfig{ModuleLevel: map[string]string{"net": "debug"}}}
	_, err = lc.LogConfig()
	require.Error(t, err)

	lc = &LocalConfig{Log: LogConfig{BriefMode: "prod"}}
	c, err := lc.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, common.LOG_MODE_PROD, c.BriefMode)
}
