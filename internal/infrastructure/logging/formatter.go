// Package logging provides the infrastructure adapters for the
// domain/logging port: a text formatter, console and file writers, a
// level filter, and a MultiLogger that dispatches to all of them.
package logging

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kodflow/livewidgetd/internal/domain/logging"
)

const (
	typicalLogLineLength int = 128
	decimalBase          int = 10
	floatPrecision64     int = 64
)

var builderPool sync.Pool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

func getBuilder() *strings.Builder {
	sb, ok := builderPool.Get().(*strings.Builder)
	if !ok {
		sb = &strings.Builder{}
	}
	return sb
}

func putBuilder(sb *strings.Builder) {
	sb.Reset()
	builderPool.Put(sb)
}

// Formatter formats log events into strings.
type Formatter interface {
	// Format formats a log event into a string.
	//
	// Params:
	//   - event: the log event to format.
	//
	// Returns:
	//   - string: the formatted log line.
	Format(event logging.LogEvent) string
}

// TextFormatter formats log events as human-readable text, one line per
// event: timestamp, level, component, message, sorted metadata.
type TextFormatter struct {
	timestampFormat string
}

// NewTextFormatter creates a text formatter using timestampFormat, or
// RFC3339 if timestampFormat is empty.
//
// Params:
//   - timestampFormat: the Go time layout to render timestamps with
//
// Returns:
//   - *TextFormatter: the created formatter
func NewTextFormatter(timestampFormat string) *TextFormatter {
	if timestampFormat == "" {
		timestampFormat = "2006-01-02T15:04:05Z07:00"
	}
	return &TextFormatter{timestampFormat: timestampFormat}
}

// Format renders event as a single text line.
//
// Params:
//   - event: the log event to format.
//
// Returns:
//   - string: the formatted log line.
func (f *TextFormatter) Format(event logging.LogEvent) string {
	sb := getBuilder()
	defer putBuilder(sb)
	sb.Grow(typicalLogLineLength)

	sb.WriteString(event.Timestamp.Format(f.timestampFormat))
	sb.WriteByte(' ')
	sb.WriteByte('[')
	sb.WriteString(event.Level.String())
	sb.WriteString("] ")

	if event.Component != "" {
		sb.WriteString(event.Component)
		sb.WriteByte(' ')
	}

	if event.Message != "" {
		sb.WriteString(event.Message)
	} else {
		sb.WriteString(event.EventType)
	}

	if len(event.Metadata) > 0 {
		sb.WriteByte(' ')
		formatMetadataToBuilder(sb, event.Metadata)
	}

	return sb.String()
}

func formatMetadataToBuilder(sb *strings.Builder, meta map[string]any) {
	keys := slices.Collect(maps.Keys(meta))
	sort.Strings(keys)

	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		formatValue(sb, meta[k])
	}
}

func formatValue(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case string:
		sb.WriteString(val)
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, decimalBase))
	case uint64:
		sb.WriteString(strconv.FormatUint(val, decimalBase))
	case float64:
		sb.WriteString(strconv.FormatFloat(val, 'f', -1, floatPrecision64))
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	default:
		fmt.Fprintf(sb, "%v", val)
	}
}

var _ Formatter = (*TextFormatter)(nil)
