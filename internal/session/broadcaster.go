package session

import "sync"

// Listener receives session presence changes.
type Listener func(present bool)

// Broadcaster fans session presence changes out to subscribed listeners.
// It has a single writer (the Client that owns it) and any number of readers.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	order     []int
	listeners map[int]Listener
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: map[int]Listener{}}
}

// Subscribe registers fn and returns a function that removes it. The returned
// function is safe to call more than once.
func (b *Broadcaster) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers present to every listener in subscription order. Listeners
// run outside the lock so they may unsubscribe themselves.
func (b *Broadcaster) Publish(present bool) {
	b.mu.Lock()
	fns := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.listeners[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(present)
	}
}

// Len returns the number of subscribed listeners.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
