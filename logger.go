package scriptrt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"time"
)

// Logger logs information generated at runtime, modeled on the teacher
// framework's own Logger: a text/template-driven output format, a
// sync.Pool of buffers to keep logging allocation-light on the request
// path, and a mutex serializing writes to Output.
type Logger struct {
	appName string
	enabled bool

	template   *template.Template
	bufferPool *sync.Pool
	mutex      sync.Mutex
	levels     []string

	Output *os.File
}

type logLevel uint8

const (
	lvlDebug logLevel = iota
	lvlInfo
	lvlWarn
	lvlError
	lvlFatal
)

// NewLogger returns a Logger for appName, formatting each line with
// format (a text/template string referencing ${app_name}, ${time_rfc3339},
// ${level}, ${short_file}, ${long_file}, ${line}).
func NewLogger(appName, format string) *Logger {
	return &Logger{
		appName: appName,
		enabled: true,
		template: template.Must(
			template.New("logger").Parse(templateize(format)),
		),
		bufferPool: &sync.Pool{
			New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, 256)) },
		},
		levels: []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"},
		Output: os.Stdout,
	}
}

// templateize rewrites the teacher's "${name}" placeholder syntax into Go
// text/template actions, so LogFormat strings keep the teacher's notation.
func templateize(format string) string {
	out := format
	for _, name := range []string{"app_name", "time_rfc3339", "level", "short_file", "long_file", "line"} {
		out = strings.ReplaceAll(out, "${"+name+"}", "{{."+name+"}}")
	}
	return out
}

func (l *Logger) Debug(args ...interface{}) { l.log(lvlDebug, "", args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(lvlDebug, format, args...) }
func (l *Logger) Info(args ...interface{})  { l.log(lvlInfo, "", args...) }
func (l *Logger) Infof(format string, args ...interface{}) { l.log(lvlInfo, format, args...) }
func (l *Logger) Warn(args ...interface{})  { l.log(lvlWarn, "", args...) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(lvlWarn, format, args...) }
func (l *Logger) Error(args ...interface{}) { l.log(lvlError, "", args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(lvlError, format, args...) }

func (l *Logger) Fatal(args ...interface{}) {
	l.log(lvlFatal, "", args...)
	os.Exit(1)
}

func (l *Logger) log(lvl logLevel, format string, args ...interface{}) {
	if !l.enabled {
		return
	}

	message := ""
	if format == "" {
		message = fmt.Sprint(args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	buf := l.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		l.bufferPool.Put(buf)
	}()

	_, file, line, _ := runtime.Caller(2)
	data := map[string]interface{}{
		"app_name":      l.appName,
		"time_rfc3339":  time.Now().Format(time.RFC3339),
		"level":         l.levels[lvl],
		"short_file":    path.Base(file),
		"long_file":     file,
		"line":          strconv.Itoa(line),
	}

	if err := l.template.Execute(buf, data); err != nil {
		fmt.Fprintln(l.Output, message)
		return
	}

	s := buf.String()
	if len(s) > 0 && s[len(s)-1] == '}' {
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(',')
		b, _ := json.Marshal(message)
		buf.WriteString(`"message":`)
		buf.Write(b)
		buf.WriteByte('}')
	} else {
		buf.WriteByte(' ')
		buf.WriteString(message)
	}
	buf.WriteByte('\n')
	l.Output.Write(buf.Bytes())
}
