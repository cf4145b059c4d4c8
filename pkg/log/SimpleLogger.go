// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package log

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// SimpleLogger writes one JSON object per line.  Events below the
// configured level are dropped.
type SimpleLogger struct {
	mutex   sync.Mutex
	encoder *json.Encoder
	level   Level
}

func NewSimpleLogger(w io.Writer) *SimpleLogger {
	return NewSimpleLoggerWithLevel(w, LevelInfo)
}

func NewSimpleLoggerWithLevel(w io.Writer, level Level) *SimpleLogger {
	return &SimpleLogger{
		encoder: json.NewEncoder(w),
		level:   level,
	}
}

func (l *SimpleLogger) log(level Level, msg string, fields []map[string]interface{}) error {
	if level < l.level {
		return nil
	}
	m := map[string]interface{}{
		"ts":    time.Now().Format(time.RFC3339),
		"level": level.String(),
		"msg":   msg,
	}
	for _, f := range fields {
		for k, v := range f {
			m[k] = v
		}
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.encoder.Encode(m)
}

func (l *SimpleLogger) Debug(msg string, fields ...map[string]interface{}) error {
	return l.log(LevelDebug, msg, fields)
}

func (l *SimpleLogger) Info(msg string, fields ...map[string]interface{}) error {
	return l.log(LevelInfo, msg, fields)
}

func (l *SimpleLogger) Warn(msg string, fields ...map[string]interface{}) error {
	return l.log(LevelWarn, msg, fields)
}

func (l *SimpleLogger) Error(msg string, fields ...map[string]interface{}) error {
	return l.log(LevelError, msg, fields)
}
