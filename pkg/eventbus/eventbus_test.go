package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type leadCreated struct {
	company string
}

type contactImported struct {
	name string
}

func TestPublisher_Publish_NoSubscribers(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *leadCreated) {
		t.Error("should not be called")
	})
	publisher.Publish(&contactImported{name: "test"})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "eventbus.Publish: no matching subscribers") {
		t.Errorf("should have contained no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	called := false
	var company string
	publisher.Subscribe(func(e *leadCreated) {
		called = true
		company = e.company
	})
	publisher.Publish(&leadCreated{company: "Acme Rentals"})
	if !called {
		t.Error("should be called")
	}
	if company != "Acme Rentals" {
		t.Errorf("expected: %v, got: %v", "Acme Rentals", company)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	handler := func(e *leadCreated) {}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Unsubscribe(handler)
	if publisher.SubscribersCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
}

func TestPublisher_HandlerPanicRecovered(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *leadCreated) {
		panic("boom")
	})
	publisher.Publish(&leadCreated{company: "Acme"})

	if !strings.Contains(logBuffer.String(), "panicked") {
		t.Errorf("expected panic to be logged, got: %q", logBuffer.String())
	}
}
