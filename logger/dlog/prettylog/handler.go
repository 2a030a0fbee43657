package prettylog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"golang.org/x/net/context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

type color int

const (
	timeFormat = "[2006-01-02 15:04:05.000]"

	reset = "\033[0m"

	cyan         color = 36
	lightGray    color = 37
	lightYellow  color = 93
	lightRed     color = 91
	lightMagenta color = 95
	white        color = 97
	green        color = 32
)

func colorize(colorCode color, v string) string {
	return fmt.Sprintf("\033[%sm%s%s", strconv.Itoa(int(colorCode)), v, reset)
}

// Handler renders records as a colorized single-header line followed by the
// attrs as indented JSON. The inner JSON handler does the attr resolution.
type Handler struct {
	h slog.Handler
	b *bytes.Buffer
	m *sync.Mutex
	w io.Writer
}

func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	b := &bytes.Buffer{}
	return &Handler{
		h: slog.NewJSONHandler(b, opts),
		b: b,
		m: &sync.Mutex{},
		w: w,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), b: h.b, m: h.m, w: h.w}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), b: h.b, m: h.m, w: h.w}
}

func (h *Handler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.m.Lock()
	defer func() {
		h.b.Reset()
		h.m.Unlock()
	}()
	if err := h.h.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any
	err := json.Unmarshal(h.b.Bytes(), &attrs)
	if err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}
	return attrs, nil
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	if r.Level <= slog.LevelDebug {
		level = colorize(lightGray, level)
	} else if r.Level <= slog.LevelInfo {
		level = colorize(cyan, level)
	} else if r.Level < slog.LevelError {
		level = colorize(lightYellow, level)
	} else if r.Level <= slog.LevelError+1 {
		level = colorize(lightRed, level)
	} else {
		level = colorize(lightMagenta, level)
	}

	timestamp := colorize(lightGray, r.Time.Format(timeFormat))
	msg := colorize(white, r.Message)

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}
	delete(attrs, "time")
	delete(attrs, "level")
	delete(attrs, "msg")

	var file string
	if source, ok := attrs["source"].(map[string]interface{}); ok {
		if name, ok2 := source["file"].(string); ok2 {
			line, _ := source["line"].(float64)
			file = name + ":" + strconv.Itoa(int(line))
		}
		delete(attrs, "source")
	}

	out := strings.Builder{}
	out.WriteString(timestamp)
	out.WriteString(" ")
	out.WriteString(level)
	out.WriteString(" ")
	if len(file) > 0 {
		out.WriteString(file)
		out.WriteString(" ")
	}
	out.WriteString(msg)
	if len(attrs) > 0 {
		jsonBytes, err := json.MarshalIndent(attrs, "", "  ")
		if err != nil {
			return fmt.Errorf("error when marshaling attrs: %w", err)
		}
		out.WriteString(" ")
		out.WriteString(colorize(green, string(jsonBytes)))
	}
	out.WriteString("\n")

	_, err = h.w.Write([]byte(out.String()))
	return err
}
