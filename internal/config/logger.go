package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger 初始化日志系统
func InitLogger(cfg *Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info'", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(buildFormatter(cfg.Log.Format))

	output, err := buildOutput(cfg.Log)
	if err != nil {
		return err
	}
	logrus.SetOutput(output)
	logrus.SetReportCaller(true)

	logrus.Infof("Logger initialized - Level: %s, Format: %s, Output: %s",
		cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)

	return nil
}

// buildFormatter 设置日志格式，未知格式回退 JSON
func buildFormatter(format string) logrus.Formatter {
	switch strings.ToLower(format) {
	case "text":
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		}
	default:
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		}
	}
}

// buildOutput 设置日志输出目标，file/both 走 lumberjack 轮转
func buildOutput(cfg LogConfig) (io.Writer, error) {
	switch strings.ToLower(cfg.Output) {
	case "file":
		rotateLogger, err := newRotateLogger(cfg)
		if err != nil {
			return nil, err
		}
		return rotateLogger, nil
	case "both":
		rotateLogger, err := newRotateLogger(cfg)
		if err != nil {
			return nil, err
		}
		return io.MultiWriter(os.Stdout, rotateLogger), nil
	default:
		return os.Stdout, nil
	}
}

func newRotateLogger(cfg LogConfig) (*lumberjack.Logger, error) {
	logDir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,    // MB
		MaxBackups: cfg.MaxBackups, // 保留文件数
		MaxAge:     cfg.MaxAge,     // 保留天数
		Compress:   cfg.Compress,   // 压缩
		LocalTime:  true,           // 使用本地时间
	}, nil
}
