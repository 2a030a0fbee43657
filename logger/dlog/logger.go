package dlog

import (
	"github.com/fuad-daoud/discord-mirror/logger/dlog/prettylog"
	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
	"log/slog"
	"os"
	"path/filepath"
)

var Log *slog.Logger

func init() {
	Log = createLogger()
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// createLogger fans out to a pretty stdout handler, plus a JSON file handler
// when LOG_DIR is set. ARCHIVE_CRON schedules daily file rotation.
func createLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
	}

	handlers := []slog.Handler{prettylog.NewHandler(os.Stdout, opts)}

	if dir := os.Getenv("LOG_DIR"); dir != "" {
		handlers = append(handlers, getJsonHandler(dir, opts))
		if spec := os.Getenv("ARCHIVE_CRON"); spec != "" {
			scheduleArchive(dir, spec)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

func getJsonHandler(dir string, opts *slog.HandlerOptions) slog.Handler {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		panic(err)
	}
	fileJson, err := os.OpenFile(filepath.Join(dir, "default.json"), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		panic(err)
	}
	return slog.NewJSONHandler(fileJson, opts)
}

func scheduleArchive(dir, spec string) {
	// The archiver logs through Log; cron only fires well after init has
	// finished building it.
	archiver := &Archiver{dir: dir}
	c := cron.New()
	_, err := c.AddFunc(spec, archiver.process)
	if err != nil {
		panic(err)
	}
	c.Start()
}
