package nativelog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	filePrefix         = "lander_"
	fileSuffix         = ".log"
	defaultLogFilePerm = 0o644
	defaultLogDirPerm  = 0o755
	defaultRetention   = 30 * 24 * time.Hour
)

// Options configures NewZapLogger.
type Options struct {
	Dir       string
	Dev       bool
	Retention time.Duration
}

// DailyFilename returns the log file name for the day of now.
func DailyFilename(now time.Time) string {
	return filePrefix + now.Format("2006-01-02") + fileSuffix
}

// Writer appends to one file per day under dir.
type Writer struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// NewWriter creates dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, defaultLogDirPerm); err != nil {
		return nil, err
	}
	return &Writer{dir: dir, now: time.Now}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, DailyFilename(w.now()))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultLogFilePerm)
	if err != nil {
		return 0, err
	}

	n, writeErr := file.Write(p)
	closeErr := file.Close()
	if writeErr != nil {
		return n, writeErr
	}
	return n, closeErr
}

func (w *Writer) Sync() error {
	return nil
}

// Prune removes daily files older than maxAge and returns how many were deleted.
func (w *Writer) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, err
	}
	cutoff := w.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), w.now().Location())
		if err != nil || !day.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// NewZapLogger tees console output on stdout with a daily file. Development mode logs at debug
// level with colored levels; otherwise info level with JSON in the file.
func NewZapLogger(opts Options) (*zap.Logger, error) {
	writer, err := NewWriter(opts.Dir)
	if err != nil {
		return nil, err
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = defaultRetention
	}
	_, _ = writer.Prune(retention)

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	consoleConfig := encoderConfig
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	if opts.Dev {
		level.SetLevel(zap.DebugLevel)
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		fileEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stdout), level),
		zapcore.NewCore(fileEncoder, zapcore.AddSync(writer), level),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	_ = zap.RedirectStdLog(logger)
	return logger, nil
}
