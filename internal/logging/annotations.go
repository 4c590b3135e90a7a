package logging

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

// annotationCore wraps a zapcore.Core and additionally renders warnings and
// errors as GitHub Actions workflow commands.
type annotationCore struct {
	base   zapcore.Core
	out    zapcore.WriteSyncer
	fields []zapcore.Field
}

func newAnnotationCore(base zapcore.Core, out zapcore.WriteSyncer) zapcore.Core {
	return &annotationCore{base: base, out: out}
}

func (c *annotationCore) Enabled(level zapcore.Level) bool {
	return c.base.Enabled(level)
}

func (c *annotationCore) With(fields []zapcore.Field) zapcore.Core {
	combined := append(append([]zapcore.Field{}, c.fields...), fields...)
	return &annotationCore{base: c.base.With(fields), out: c.out, fields: combined}
}

func (c *annotationCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *annotationCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if cmd := commandFor(entry.Level); cmd != "" {
		line := fmt.Sprintf("::%s::%s\n", cmd, escapeData(annotationText(entry.Message, append(c.fields, fields...))))
		if _, err := c.out.Write([]byte(line)); err != nil {
			return err
		}
		return nil
	}
	return c.base.Write(entry, fields)
}

func (c *annotationCore) Sync() error {
	return c.base.Sync()
}

// commandFor maps a level to its workflow command, empty for levels that are
// logged normally.
func commandFor(level zapcore.Level) string {
	switch {
	case level >= zapcore.ErrorLevel:
		return "error"
	case level == zapcore.WarnLevel:
		return "warning"
	default:
		return ""
	}
}

// annotationText appends sorted key=value pairs to the message.
func annotationText(message string, fields []zapcore.Field) string {
	if len(fields) == 0 {
		return message
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, enc.Fields[key])
	}
	return b.String()
}

// escapeData escapes workflow command data so multi-line messages survive.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
