package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/quietstream/quietstream/log"
)

// EventCallback receives mpv property changes and other events.
// For property changes the first argument is the property name and data its new value.
// For other events it is the event name and data the whole event object.
type EventCallback func(name string, data any)

// EventListener keeps a dedicated connection open and dispatches mpv events.
type EventListener struct {
	socketPath string
	properties []string
	callback   EventCallback
	conn       net.Conn
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener returns a listener that will observe the given properties.
func NewEventListener(socketPath string, properties []string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		properties: properties,
		callback:   callback,
		done:       make(chan struct{}),
	}
}

// Start subscribes to the properties on a persistent connection and begins the read loop.
// Subscriptions are bound to that connection, so closing it drops them too.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range el.properties {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(conn)

	log.Debugf("mpv event listener started on %s (observing: %v)", el.socketPath, el.properties)
	return nil
}

// Stop closes the connection. No callback runs after Stop returns.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	conn := el.conn
	el.mu.Unlock()

	_ = conn.Close()
	<-el.done
}

func (el *EventListener) active() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.listening
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer close(el.done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	for scanner.Scan() {
		if !el.active() {
			return
		}
		el.processEvent(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) && el.active() {
		log.Warnf("event listener read error: %v", err)
	}
}

func (el *EventListener) processEvent(line []byte) {
	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	switch eventType {
	case "property-change":
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
	default:
		el.callback(eventType, event)
	}
}
