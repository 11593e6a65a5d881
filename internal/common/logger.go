package common

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sharedLogger *zap.SugaredLogger
	loggerOnce   sync.Once
)

func InitLogger() {
	loggerOnce.Do(func() {
		encoderConfig := zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			MessageKey:     "M",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.0000"),
			EncodeDuration: zapcore.StringDurationEncoder,
		}

		level := zapcore.InfoLevel
		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			if parsedLevel, err := zapcore.ParseLevel(lvl); err == nil {
				level = parsedLevel
			}
		}

		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			level,
		)

		sharedLogger = zap.New(core).Sugar()
	})
}

func GetLogger() *zap.SugaredLogger {
	InitLogger()
	return sharedLogger
}

func SyncLogger() {
	if sharedLogger != nil {
		_ = sharedLogger.Sync()
	}
}
