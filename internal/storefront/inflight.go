package storefront

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when the same action on the same resource is
// already running.
var ErrInFlight = errors.New("request already in progress")

type flightKey struct {
	action string
	id     string
}

type flights struct {
	mu      sync.Mutex
	running map[flightKey]struct{}
}

// acquire marks (action, id) as running. The returned release must be called
// exactly once.
func (f *flights) acquire(action, id string) (release func(), err error) {
	k := flightKey{action: action, id: id}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running == nil {
		f.running = make(map[flightKey]struct{})
	}
	if _, ok := f.running[k]; ok {
		return nil, ErrInFlight
	}
	f.running[k] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.running, k)
			f.mu.Unlock()
		})
	}, nil
}

func (f *flights) busy(action, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.running[flightKey{action: action, id: id}]
	return ok
}

// guard runs fn under the (action, id) flight.
func guard[T any](f *flights, action, id string, fn func() (T, error)) (T, error) {
	release, err := f.acquire(action, id)
	if err != nil {
		var zero T
		return zero, err
	}
	defer release()
	return fn()
}
