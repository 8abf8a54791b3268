package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/clubs/pkg/logging"
)

type importFinished struct {
	added int
}

type importFailed struct {
	reason string
}

func TestPublisher_PublishWithoutSubscribersLogs(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *importFinished) {
		t.Error("should not be called")
	})
	publisher.Publish(&importFailed{reason: "registry down"})

	output := logBuffer.String()
	require.True(t, strings.Contains(output, "eventbus.Publish: no matching subscribers"), output)
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got int
	publisher.Subscribe(func(e *importFinished) {
		got = e.added
	})
	publisher.Publish(&importFinished{added: 3})
	require.Equal(t, 3, got)
}

func TestPublisher_ValueEvents(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	calls := 0
	publisher.Subscribe(func(e importFinished) { calls++ })
	publisher.Subscribe(func(e *importFinished) { t.Error("pointer handler must not match value event") })

	publisher.Publish(importFinished{added: 1})
	require.Equal(t, 1, calls)
}

func TestPublisher_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	second := false
	publisher.Subscribe(func(e *importFinished) { panic("boom") })
	publisher.Subscribe(func(e *importFinished) { second = true })

	require.NotPanics(t, func() { publisher.Publish(&importFinished{}) })
	require.True(t, second)
}

func TestPublisher_UnsubscribeAndClear(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	handler := func(e *importFinished) {}
	publisher.Subscribe(handler)
	publisher.Subscribe(func(e *importFailed) {})
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Clear()
	require.Equal(t, 0, publisher.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(a *importFinished, b string) {}, []interface{}{&importFinished{}, "x"}))
	require.False(t, MatchSignature(func(a *importFinished) {}, []interface{}{&importFinished{}, "x"}))
	require.True(t, MatchSignature(func(a *importFinished) {}, []interface{}{nil}))
	require.False(t, MatchSignature("not a func", nil))
}
