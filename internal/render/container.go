package render

import "sync"

// Container receives a full replacement of its content on every render.
type Container interface {
	SetHTML(html string)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func(html string)

// SetHTML calls f.
func (f ContainerFunc) SetHTML(html string) {
	f(html)
}

// Buffer is an in-memory Container. It keeps the latest content and counts writes.
type Buffer struct {
	mu     sync.RWMutex
	html   string
	writes int
}

// SetHTML replaces the buffer content.
func (b *Buffer) SetHTML(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.html = html
	b.writes++
}

// HTML returns the current content.
func (b *Buffer) HTML() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.html
}

// Writes returns how many times the content was replaced.
func (b *Buffer) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}
