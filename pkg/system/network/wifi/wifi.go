package network_wifi

import (
	"sync"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
)

// NewPlatform returns the wlan binding for the running OS. Platforms without
// one get an error wrapping winwifi.ErrNotSupported.
func NewPlatform(logger logrus.FieldLogger) (winwifi.WlanPlatform, error) {
	return newPlatform(logger)
}

// dispatcher fans platform notifications out to registered callbacks.
type dispatcher struct {
	mu        sync.Mutex
	next      winwifi.NotificationHandle
	callbacks map[winwifi.NotificationHandle]func(winwifi.NotificationToken)
}

func newDispatcher() *dispatcher {
	return &dispatcher{
		callbacks: map[winwifi.NotificationHandle]func(winwifi.NotificationToken){},
	}
}

func (d *dispatcher) add(cb func(winwifi.NotificationToken)) winwifi.NotificationHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.callbacks[d.next] = cb
	return d.next
}

// remove reports whether the handle was registered.
func (d *dispatcher) remove(h winwifi.NotificationHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.callbacks[h]
	delete(d.callbacks, h)
	return ok
}

func (d *dispatcher) get(h winwifi.NotificationHandle) (func(winwifi.NotificationToken), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cb, ok := d.callbacks[h]
	return cb, ok
}

// notify calls every callback outside the lock, so a callback may unregister itself.
func (d *dispatcher) notify(tok winwifi.NotificationToken) {
	d.mu.Lock()
	cbs := make([]func(winwifi.NotificationToken), 0, len(d.callbacks))
	for _, cb := range d.callbacks {
		cbs = append(cbs, cb)
	}
	d.mu.Unlock()

	for _, cb := range cbs {
		cb(tok)
	}
}
