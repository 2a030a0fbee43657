package dlog

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Archiver moves the previous day's log files into a dated subdirectory and
// truncates the live ones. Driven by the ARCHIVE_CRON schedule.
type Archiver struct {
	dir string
}

func (a *Archiver) process() {
	Log.Info("Started archive process", "dir", a.dir)
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	archiveDir := filepath.Join(a.dir, yesterday)

	tmp := archiveDir
	counter := 1
	err := os.Mkdir(archiveDir, 0755)
	for os.IsExist(err) {
		archiveDir = tmp + "-" + strconv.Itoa(counter)
		counter++
		err = os.Mkdir(archiveDir, 0755)
	}
	if err != nil {
		Log.Error("Failed to create archive directory", "error", err)
		return
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		Log.Error("Failed to read log directory", "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		livePath := filepath.Join(a.dir, entry.Name())
		old, err := os.Open(livePath)
		if err != nil {
			Log.Error("Failed to open file", "fileName", livePath, "err", err)
			return
		}
		archived, err := os.OpenFile(filepath.Join(archiveDir, entry.Name()), os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			Log.Error("Failed to open file", "fileName", filepath.Join(archiveDir, entry.Name()), "err", err)
			return
		}
		written, err := io.Copy(archived, old)
		old.Close()
		archived.Close()
		if err != nil {
			Log.Error("Failed to write archive", "fileName", entry.Name(), "error", err)
			return
		}
		Log.Info("Copied log", "fileName", entry.Name(), "written", written)

		err = os.Truncate(livePath, 0)
		if err != nil {
			Log.Error("Failed to truncate file", "fileName", entry.Name(), "err", err)
			return
		}
	}
}
