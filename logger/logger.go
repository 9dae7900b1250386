package logger

import (
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logTmFmt     = "2006-01-02 15:04:05.000"
	callerLenMax = 33
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// InitLogger 初始化日志，debug 模式同时输出到控制台和文件，否则只写 json 到文件
func InitLogger(logpath string, isDebug bool) {
	// 日志分割
	hook := &lumberjack.Logger{
		Filename:   logpath, // 日志文件路径，默认 os.TempDir()
		MaxSize:    10,      // 每个日志文件保存M
		MaxBackups: 30,      // 保留30个备份
		MaxAge:     7,       // 保留7天
		Compress:   false,
	}
	write := zapcore.AddSync(hook)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    cEncodeLevel,
		EncodeTime:     cEncodeTime,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   cEncodeCaller,
		EncodeName:     zapcore.FullNameEncoder,
	}
	var core zapcore.Core
	if isDebug {
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), write),
			zap.DebugLevel,
		)
	} else {
		core = zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			write,
			zap.InfoLevel,
		)
	}
	SetLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.Development()))
	Info("DefaultLogger init success", zap.String("path", logpath), zap.Bool("debug", isDebug))
}

// SetLogger 替换全局日志(测试中可传入 observer)
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// L 返回当前全局日志
func L() *zap.Logger {
	return logger.Load()
}

// Sync 刷新缓冲
func Sync() error {
	return logger.Load().Sync()
}

// cEncodeLevel 自定义日志级别显示
func cEncodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

// cEncodeTime 自定义时间格式显示
func cEncodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(logTmFmt))
}

// cEncodeCaller 自定义行号显示
func cEncodeCaller(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	path := caller.TrimmedPath()
	spaceStr := ""
	if len(path) < callerLenMax {
		spaceStr = strings.Repeat(" ", callerLenMax-len(path))
	}
	enc.AppendString("[" + path + "]" + spaceStr)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Load().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Load().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Load().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Load().Error(msg, fields...)
}
