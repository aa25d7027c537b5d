// Package surface holds the display elements the overlay renders.
package surface

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/javajack/sheetlive"
)

// Element is one addressable display element.
type Element struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Src     string    `json:"src"`
	Visible bool      `json:"visible"`
	Updated time.Time `json:"updated"`
}

// Board is an in-memory sheetlive.Surface. Subscribers receive every element
// whose state actually changed.
type Board struct {
	mu       sync.RWMutex
	strict   bool
	elements map[string]*Element
	subs     map[int]chan Element
	nextSub  int
}

// subscriberBuffer is how many pending changes a slow subscriber may hold
// before further changes to it are dropped.
const subscriberBuffer = 64

// NewBoard creates a board. With ids, only those elements exist and writes to
// any other id fail with ErrElementNotFound. Without ids, elements are created
// on first write.
func NewBoard(ids ...string) *Board {
	b := &Board{
		strict:   len(ids) > 0,
		elements: make(map[string]*Element, len(ids)),
		subs:     make(map[int]chan Element),
	}
	for _, id := range ids {
		b.elements[id] = &Element{ID: id, Visible: true}
	}
	return b
}

// SetText implements sheetlive.Surface.
func (b *Board) SetText(id, text string) error {
	return b.update(id, func(e *Element) bool {
		if e.Text == text {
			return false
		}
		e.Text = text
		return true
	})
}

// SetImage implements sheetlive.Surface.
func (b *Board) SetImage(id, src string) error {
	return b.update(id, func(e *Element) bool {
		if e.Src == src {
			return false
		}
		e.Src = src
		return true
	})
}

// SetVisible implements sheetlive.Surface.
func (b *Board) SetVisible(id string, visible bool) error {
	return b.update(id, func(e *Element) bool {
		if e.Visible == visible {
			return false
		}
		e.Visible = visible
		return true
	})
}

func (b *Board) update(id string, apply func(e *Element) bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.elements[id]
	if !ok {
		if b.strict {
			return fmt.Errorf("%w: %q", sheetlive.ErrElementNotFound, id)
		}
		e = &Element{ID: id, Visible: true}
		b.elements[id] = e
	}
	if !apply(e) {
		return nil
	}
	e.Updated = time.Now()

	changed := *e
	for _, ch := range b.subs {
		select {
		case ch <- changed:
		default:
		}
	}
	return nil
}

// Get returns a copy of the element with the given id.
func (b *Board) Get(id string) (Element, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.elements[id]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Snapshot returns every element, sorted by id.
func (b *Board) Snapshot() []Element {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Element, 0, len(b.elements))
	for _, e := range b.elements {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Subscribe returns a channel of changed elements and a func that ends the
// subscription and closes the channel.
func (b *Board) Subscribe() (<-chan Element, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	ch := make(chan Element, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}
