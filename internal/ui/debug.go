package ui

import (
	"fmt"
	"strings"
)

// eventLog keeps the most recent key tip transitions for the debug panel.
type eventLog struct {
	limit  int
	events []string
}

func newEventLog(limit int) *eventLog {
	return &eventLog{limit: limit}
}

func (l *eventLog) add(format string, args ...any) {
	if l == nil || l.limit <= 0 {
		return
	}
	l.events = append(l.events, fmt.Sprintf(format, args...))
	if over := len(l.events) - l.limit; over > 0 {
		l.events = append(l.events[:0], l.events[over:]...)
	}
}

// tail returns the last n events, oldest first.
func (l *eventLog) tail(n int) []string {
	if l == nil || n <= 0 {
		return nil
	}
	if n > len(l.events) {
		n = len(l.events)
	}
	return l.events[len(l.events)-n:]
}

func (l *eventLog) len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

func (l *eventLog) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(l.events, "\n")
}
