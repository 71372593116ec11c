package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/ditherit/ditherit/configs"
)

var (
	methodColors = map[string]*color.Color{
		http.MethodGet:    color.New(color.Bold, color.FgHiBlue),
		http.MethodHead:   color.New(color.Bold, color.FgHiBlue),
		http.MethodPost:   color.New(color.Bold, color.FgHiGreen),
		http.MethodDelete: color.New(color.Bold, color.FgRed),
	}
	defaultMethodColor = color.New(color.Bold, color.FgHiWhite)
)

func statusColor(status int) *color.Color {
	switch {
	case status < 200:
		return color.New(color.FgBlue)
	case status < 300:
		return color.New(color.FgGreen)
	case status < 400:
		return color.New(color.FgCyan)
	case status < 500:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

func elapsedColor(d time.Duration) *color.Color {
	switch {
	case d < 500*time.Millisecond:
		return color.New(color.FgGreen)
	case d < 2*time.Second:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

// httpLogFormatter prints one colored line per request. It's only
// used in dev mode.
type httpLogFormatter struct{}

func (f *httpLogFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b bytes.Buffer
	w := color.New(color.FgWhite)

	w.Fprint(&b, "[HTTP")
	if reqID, ok := entry.Data["@id"]; ok {
		color.New(color.FgBlue).Fprintf(&b, " %s", reqID)
	}
	w.Fprint(&b, "] ")

	met, _ := entry.Data["http_method"].(string)
	c, ok := methodColors[met]
	if !ok {
		c = defaultMethodColor
	}
	c.Fprint(&b, met)
	w.Fprintf(&b, " %s ", entry.Data["path"])

	status, _ := entry.Data["status"].(int)
	statusColor(status).Fprint(&b, status)
	color.New(color.FgCyan).Fprintf(&b, " %d", entry.Data["length"])

	if algo, ok := entry.Data["algorithm"]; ok {
		color.New(color.FgMagenta).Fprintf(&b, " %s", algo)
	}

	w.Fprint(&b, " in ")
	ms, _ := entry.Data["elapsed_ms"].(float64)
	elapsed := time.Duration(ms * float64(time.Millisecond))
	elapsedColor(elapsed).Fprint(&b, elapsed)

	b.WriteString("\n")
	return b.Bytes(), nil
}

// Logger is a middleware that logs requests.
func Logger() func(next http.Handler) http.Handler {
	return middleware.RequestLogger(newLogger())
}

func newLogger() *structuredLogger {
	l := &structuredLogger{logger: log.StandardLogger()}
	if configs.Config.Main.DevMode {
		color.NoColor = false
		l.logger = log.New()
		l.logger.Formatter = &httpLogFormatter{}
		l.logger.Level = log.StandardLogger().Level
	}

	return l
}

type structuredLogger struct {
	logger *log.Logger
}

func (sl *structuredLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &structuredLoggerEntry{
		e: sl.logger.WithFields(log.Fields{
			"@id":         middleware.GetReqID(r.Context()),
			"http_method": r.Method,
			"http_proto":  r.Proto,
			"remote_addr": r.RemoteAddr,
			"path":        r.RequestURI,
			"ua":          r.UserAgent(),
		}),
	}
}

type structuredLoggerEntry struct {
	e *log.Entry
}

func (l *structuredLoggerEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, _ interface{}) {
	e := l.e.WithFields(log.Fields{
		"status":     status,
		"length":     bytes,
		"elapsed_ms": float64(elapsed.Nanoseconds()) / 1000000.0,
	})
	if algo := header.Get(AlgorithmHeader); algo != "" {
		e = e.WithField("algorithm", algo)
	}
	e.Info("http")
}

func (l *structuredLoggerEntry) Panic(v interface{}, stack []byte) {
	l.e.WithField("stack", string(stack)).Errorf("panic: %v", v)
}
