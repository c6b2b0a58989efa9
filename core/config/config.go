package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"perceptron/common"
)

const (
	EnvPrefix      = "perceptron"
	EnvCfgPath     = "PERCEPTRON_CFG_PATH"
	ConfigFileName = "perceptron_config"
)

type TrainConfig struct {
	LearningRate float64 `mapstructure:"learning_rate"`
	Epochs       int     `mapstructure:"epochs"`
	Reinitialize bool    `mapstructure:"reinitialize"`
}

type DataConfig struct {
	TrainPath   string `mapstructure:"train_path"`
	PredictPath string `mapstructure:"predict_path"`
	HasHeader   bool   `mapstructure:"has_header"`
	Delimiter   string `mapstructure:"delimiter"`
}

type LogConfig struct {
	BriefMode      string            `mapstructure:"brief_mode"`
	Path           string            `mapstructure:"path"`
	Level          string            `mapstructure:"level"`
	ModuleLevel    map[string]string `mapstructure:"module_level"`
	RotationMaxAge int               `mapstructure:"rotation_max_age"`
	RotationTime   int               `mapstructure:"rotation_time"`
	RotationSize   int               `mapstructure:"rotation_size"`
	ShowLine       bool              `mapstructure:"show_line"`
	InConsole      bool              `mapstructure:"in_console"`
}

type LocalConfig struct {
	Train TrainConfig `mapstructure:"train"`
	Data  DataConfig  `mapstructure:"data"`
	Log   LogConfig   `mapstructure:"log"`

	// file the values were read from, empty when only defaults/env/flags were used
	Source string `mapstructure:"-"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"learning-rate": "train.learning_rate",
	"epochs":        "train.epochs",
	"reinit":        "train.reinitialize",
	"data":          "data.train_path",
	"query":         "data.predict_path",
	"header":        "data.has_header",
	"log-level":     "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("train.learning_rate", 1.0)
	v.SetDefault("train.epochs", 10)
	v.SetDefault("train.reinitialize", false)
	v.SetDefault("data.train_path", "")
	v.SetDefault("data.predict_path", "")
	v.SetDefault("data.has_header", false)
	v.SetDefault("data.delimiter", ",")
	v.SetDefault("log.brief_mode", "")
	v.SetDefault("log.path", "./perceptron.log")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.rotation_max_age", 7)
	v.SetDefault("log.rotation_time", 24)
	v.SetDefault("log.rotation_size", 30)
	v.SetDefault("log.show_line", true)
	v.SetDefault("log.in_console", true)
}

// InitLocalConfig reads the config file named by the --config flag, or
// perceptron_config.* under $PERCEPTRON_CFG_PATH (default "."). A missing
// file is not an error. PERCEPTRON_* env vars and changed flags override
// file values.
func InitLocalConfig(cmd *cobra.Command) (*LocalConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	altPath := os.Getenv(EnvCfgPath)
	if altPath == "" {
		altPath = "."
	}
	v.AddConfigPath(altPath)
	v.SetConfigName(ConfigFileName)

	cmdSetConfigFile := ""
	if flag := cmd.Flags().Lookup("config"); flag != nil {
		cmdSetConfigFile = flag.Value.String()
	}
	if cmdSetConfigFile != "" {
		v.SetConfigFile(cmdSetConfigFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cmdSetConfigFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", name)
			}
		}
	}

	lc := &LocalConfig{}
	if err := v.Unmarshal(lc); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	lc.Source = v.ConfigFileUsed()
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	return lc, nil
}

func (lc *LocalConfig) Validate() error {
	if lc.Train.LearningRate <= 0 {
		return errors.Errorf("train.learning_rate must be positive, got %v", lc.Train.LearningRate)
	}
	if lc.Train.Epochs < 0 {
		return errors.Errorf("train.epochs must not be negative, got %d", lc.Train.Epochs)
	}
	if len([]rune(lc.Data.Delimiter)) != 1 {
		return errors.Errorf("data.delimiter must be a single character, got %q", lc.Data.Delimiter)
	}
	return nil
}

// Comma is the CSV delimiter rune.
func (lc *LocalConfig) Comma() rune {
	return []rune(lc.Data.Delimiter)[0]
}

// LogConfig converts the log section into the logger factory's config.
func (lc *LocalConfig) LogConfig() (*common.LogConfig, error) {
	c := &common.LogConfig{
		BriefMode:      strings.ToUpper(lc.Log.BriefMode),
		LogPath:        lc.Log.Path,
		LogLevel:       common.ParseLogLevel(lc.Log.Level),
		RotationMaxAge: lc.Log.RotationMaxAge,
		RotationTime:   lc.Log.RotationTime,
		RotationSize:   lc.Log.RotationSize,
		ShowLine:       lc.Log.ShowLine,
		LogInConsole:   lc.Log.InConsole,
	}
	switch c.BriefMode {
	case "", common.LOG_MODE_DEV, common.LOG_MODE_PROD:
	default:
		return nil, errors.Errorf("unknown log.brief_mode %q", lc.Log.BriefMode)
	}
	if len(lc.Log.ModuleLevel) > 0 {
		c.ModuleSpecialLevel = make(map[string]common.LOG_LEVEL, len(lc.Log.ModuleLevel))
		for module, level := range lc.Log.ModuleLevel {
			name, ok := common.ModuleName(module)
			if !ok {
				return nil, errors.Errorf("unknown module %q in log.module_level", module)
			}
			c.ModuleSpecialLevel[name] = common.ParseLogLevel(level)
		}
	}
	return c, nil
}
