// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"strings"
)

const (
	rightArrow = "▶"
	timeFormat = "060102 15:04:05.000"

	// fileTailLength is how much of the file path is shown.
	fileTailLength = 10
	// maxCount is the last value of the line counter before it wraps.
	maxCount uint16 = 999
)

var severityNames = [...]string{
	TraceLevel:    "TRAC",
	DebugLevel:    "DEBU",
	InfoLevel:     "INFO",
	WarningLevel:  "WARN",
	ErrorLevel:    "ERRO",
	CriticalLevel: "CRIT",
}

// counter numbers written lines. Only the writer touches it.
var counter uint16

func (s Severity) String() string {
	if s == 0 || int(s) >= len(severityNames) {
		return "NONE"
	}
	return severityNames[s]
}

func nextCount() uint16 {
	counter++
	current := counter
	if counter >= maxCount {
		counter = 0
	}
	return current
}

// formatLine renders a line as:
//
//	060102 15:04:05.000 /microtime:042 ▶ INFO 001 [3x] message
func formatLine(line *logLine, duplicates uint64, useColor bool) string {
	var sb strings.Builder

	if useColor {
		sb.WriteString(line.level.color())
	}
	sb.WriteString(line.timestamp.Format(timeFormat))
	sb.WriteByte(' ')
	sb.WriteString(formatLocation(line))
	fmt.Fprintf(&sb, " %s %s %03d", rightArrow, line.level, nextCount())
	if duplicates > 0 {
		fmt.Fprintf(&sb, " [%dx]", duplicates+1)
	}
	if useColor {
		sb.WriteString(endColor())
	}
	sb.WriteByte(' ')
	sb.WriteString(line.msg)

	return sb.String()
}

func formatLocation(line *logLine) string {
	if line.line == 0 {
		return "?"
	}
	file := line.file
	if len(file) > fileTailLength {
		file = file[len(file)-fileTailLength:]
	}
	return fmt.Sprintf("%s:%03d", file, line.line)
}
