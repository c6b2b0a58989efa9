package common

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LOG_LEVEL int

const (
	LEVEL_DEBUG LOG_LEVEL = iota
	LEVEL_INFO
	LEVEL_WARN
	LEVEL_ERROR
)

var (
	LOG_LEVEL_Name = map[LOG_LEVEL]string{
		0: "DEBUG",
		1: "INFO",
		2: "WARN",
		3: "ERROR",
	}
	LOG_LEVEL_Value = map[string]LOG_LEVEL{
		"DEBUG": 0,
		"INFO":  1,
		"WARN":  2,
		"ERROR": 3,
	}
)

// ParseLogLevel is case insensitive and falls back to INFO.
func ParseLogLevel(s string) LOG_LEVEL {
	if l, ok := LOG_LEVEL_Value[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return l
	}
	return LEVEL_INFO
}

const (
	LOG_MODE_DEV  = "DEV"
	LOG_MODE_PROD = "PROD"
)

type LogConfig struct {
	BriefMode          string
	ModuleSpecialLevel map[string]LOG_LEVEL

	LogPath        string
	LogLevel       LOG_LEVEL
	RotationMaxAge int // days
	RotationTime   int // hours
	RotationSize   int // MB
	ShowLine       bool
	LogInConsole   bool
}

func DefaultLogConfig(isDEV bool) *LogConfig {
	if isDEV {
		return defaultBriefLogConfigForDEV()
	}

	return defaultBriefLogConfigForPROD()
}

func defaultBriefLogConfigForDEV() *LogConfig {
	return &LogConfig{
		LogPath:        "./perceptron.dev.log",
		LogLevel:       LEVEL_DEBUG,
		RotationMaxAge: 1,
		RotationTime:   1,
		RotationSize:   10,
		ShowLine:       true,
		LogInConsole:   true,
	}
}

func defaultBriefLogConfigForPROD() *LogConfig {
	return &LogConfig{
		LogPath:        "./perceptron.prod.log",
		LogLevel:       LEVEL_INFO,
		RotationMaxAge: 7,
		RotationTime:   24,
		RotationSize:   30,
		ShowLine:       true,
		LogInConsole:   false,
	}
}

func adjustLogConfig(name string, lc *LogConfig) *LogConfig {
	if lc.BriefMode != "" {
		return DefaultLogConfig(lc.BriefMode != LOG_MODE_PROD)
	}

	newC := *lc
	newC.ModuleSpecialLevel = nil
	if level, ok := lc.ModuleSpecialLevel[name]; ok {
		newC.LogLevel = level
	}
	return &newC
}

func zapLevel(l LOG_LEVEL) zapcore.Level {
	switch l {
	case LEVEL_DEBUG:
		return zap.DebugLevel
	case LEVEL_INFO:
		return zap.InfoLevel
	case LEVEL_WARN:
		return zap.WarnLevel
	case LEVEL_ERROR:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func NewSugaredLogger(name string, lc *LogConfig) *zap.SugaredLogger {
	lcc := adjustLogConfig(name, lc)
	level := zapLevel(lcc.LogLevel)
	priorityLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= level
	})

	var syncer zapcore.WriteSyncer
	if lcc.LogPath != "" {
		rotationWriter, err := rotatelogs.New(
			lcc.LogPath+".%Y%m%d%H",
			rotatelogs.WithRotationTime(time.Duration(lcc.RotationTime)*time.Hour),
			rotatelogs.WithRotationSize(int64(lcc.RotationSize*1024*1024)),
			rotatelogs.WithMaxAge(time.Hour*24*time.Duration(lcc.RotationMaxAge)),
		)
		if err != nil {
			log.Fatalf("new rotation log failed, %s", err)
		}
		if lcc.LogInConsole {
			syncer = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(rotationWriter))
		} else {
			syncer = zapcore.AddSync(rotationWriter)
		}
	} else {
		// no file configured, console only
		syncer = zapcore.AddSync(os.Stderr)
	}

	customLevelEncoder := func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + level.CapitalString() + "]")
	}
	customTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "line",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), syncer, priorityLevel)
	logger := zap.New(core).Named(name)

	var opts []zap.Option
	if lcc.ShowLine {
		opts = append(opts, zap.AddCaller())
	}
	// calls go through RunLogger, skip that frame
	opts = append(opts, zap.AddCallerSkip(1))
	return logger.WithOptions(opts...).Sugar()
}

const (
	MODULE_PERCEPTRON = "[Perceptron]"
	MODULE_DATASET    = "[Dataset]"
	MODULE_TRAINER    = "[Trainer]"
	MODULE_CLI        = "[CLI]"
)

var modules = []string{MODULE_PERCEPTRON, MODULE_DATASET, MODULE_TRAINER, MODULE_CLI}

// ModuleName maps a case insensitive name such as "trainer" to "[Trainer]".
func ModuleName(s string) (string, bool) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	for _, m := range modules {
		if strings.EqualFold("["+s+"]", m) {
			return m, true
		}
	}
	return "", false
}

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

// moduleLogger owns the zap logger of one module. It is rebuilt in place
// when the log config changes, so every RunLogger sharing it follows.
type moduleLogger struct {
	name  string
	zlog  *zap.SugaredLogger
	mutex sync.RWMutex
}

func (m *moduleLogger) current() *zap.SugaredLogger {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.zlog
}

func (m *moduleLogger) rebuild(lc *LogConfig) {
	z := NewSugaredLogger(m.name, lc)
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.zlog = z
}

// RunLogger writes through its module logger. Entries carry a "run" field
// when the logger was bound to a run id.
type RunLogger struct {
	module *moduleLogger
	runID  string
}

// Logger returns the zap logger currently backing l, with the run field applied.
func (l *RunLogger) Logger() *zap.SugaredLogger {
	z := l.module.current()
	if l.runID != "" {
		return z.With("run", l.runID)
	}
	return z
}

// WithRunID binds a logger of the same module to runID.
func (l *RunLogger) WithRunID(runID string) *RunLogger {
	return &RunLogger{module: l.module, runID: runID}
}

func (l *RunLogger) RunID() string {
	return l.runID
}

func (l *RunLogger) Debug(args ...interface{}) { l.Logger().Debug(args...) }

func (l *RunLogger) Debugf(format string, args ...interface{}) { l.Logger().Debugf(format, args...) }

func (l *RunLogger) Info(args ...interface{}) { l.Logger().Info(args...) }

func (l *RunLogger) Infof(format string, args ...interface{}) { l.Logger().Infof(format, args...) }

func (l *RunLogger) Warn(args ...interface{}) { l.Logger().Warn(args...) }

func (l *RunLogger) Warnf(format string, args ...interface{}) { l.Logger().Warnf(format, args...) }

func (l *RunLogger) Error(args ...interface{}) { l.Logger().Error(args...) }

func (l *RunLogger) Errorf(format string, args ...interface{}) { l.Logger().Errorf(format, args...) }

// NopLogger discards everything. Library types use it until a host sets a logger.
func NopLogger() Logger {
	return zap.NewNop().Sugar()
}

var (
	moduleLoggers = make(map[string]*moduleLogger)
	loggerMutex   sync.Mutex
	runLogConfig  *LogConfig
)

// consoleLogConfig is used until SetLogConfig is called. It writes no files.
func consoleLogConfig() *LogConfig {
	return &LogConfig{LogLevel: LEVEL_INFO, ShowLine: true}
}

// GetLogger returns a logger for module name that is not bound to a run.
func GetLogger(name string) *RunLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	m, ok := moduleLoggers[name]
	if !ok {
		if runLogConfig == nil {
			runLogConfig = consoleLogConfig()
		}
		m = &moduleLogger{name: name, zlog: NewSugaredLogger(name, runLogConfig)}
		moduleLoggers[name] = m
	}
	return &RunLogger{module: m}
}

func GetLoggerWithRunID(name, runID string) *RunLogger {
	return GetLogger(name).WithRunID(runID)
}

// SetLogConfig replaces the config and rebuilds every module logger. A nil
// config restores the console-only default.
func SetLogConfig(config *LogConfig) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if config == nil {
		config = consoleLogConfig()
	}
	runLogConfig = config
	for _, m := range moduleLoggers {
		m.rebuild(runLogConfig)
	}
}

// SyncLoggers flushes every module logger, errors are ignored.
func SyncLoggers() {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	for _, m := range moduleLoggers {
		_ = m.current().Sync()
	}
}
