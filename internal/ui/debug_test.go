package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLogLimit(t *testing.T) {
	l := newEventLog(3)
	for i := 0; i < 5; i++ {
		l.add("event %d", i)
	}
	assert.Equal(t, 3, l.len())
	assert.Equal(t, []string{"event 3", "event 4"}, l.tail(2))
	assert.Equal(t, "event 2\nevent 3\nevent 4", l.String())
	assert.Len(t, l.tail(10), 3)
	assert.Nil(t, l.tail(0))
}

func TestEventLogDisabled(t *testing.T) {
	l := newEventLog(0)
	l.add("ignored")
	assert.Equal(t, 0, l.len())

	var nilLog *eventLog
	nilLog.add("ignored")
	assert.Equal(t, 0, nilLog.len())
	assert.Empty(t, nilLog.String())
}
