package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

var logOutput io.Writer = os.Stdout

func writeLine(line *logLine, duplicates uint64) {
	fmt.Fprintln(logOutput, formatLine(line, duplicates, colorsSupported))
}

func startWriter() {
	shutdownWaitGroup.Add(1)
	go writer()
}

func writer() {
	defer shutdownWaitGroup.Done()

	var line *logLine
	var lastLine *logLine
	var duplicates uint64

	// write lines that were logged before start
	writeAll := func() {
		for {
			select {
			case line = <-logBuffer:
				// reduce duplicates
				if lastLine != nil && lastLine.Equal(line) {
					duplicates++
					continue
				}
				if lastLine != nil {
					writeLine(lastLine, duplicates)
				}
				lastLine = line
				duplicates = 0
			default:
				if lastLine != nil {
					writeLine(lastLine, duplicates)
					lastLine = nil
					duplicates = 0
				}
				return
			}
		}
	}
	writeAll()

	for {
		// wait until logs need to be processed
		select {
		case <-logsWaiting:
			logsWaitingFlag.UnSet()
		case <-forceEmptyingOfBuffer:
		case <-shutdownSignal:
			writeAll()
			writeLine(&logLine{
				msg:       "===== LOGGING STOPPED =====",
				level:     WarningLevel,
				timestamp: time.Now(),
			}, 0)
			return
		}

		// write all the logs!
		writeAll()
	}
}

// Equal returns whether two log lines are equal, disregarding the time.
func (ll *logLine) Equal(ol *logLine) bool {
	switch {
	case ll.msg != ol.msg:
		return false
	case ll.file != ol.file:
		return false
	case ll.line != ol.line:
		return false
	case ll.level != ol.level:
		return false
	}
	return true
}
