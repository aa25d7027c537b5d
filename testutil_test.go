package sheetlive

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeElement mirrors the three properties an operation can write.
type fakeElement struct {
	Text    string
	Src     string
	Visible bool
}

// fakeSurface is a fixed set of elements; unknown ids return ErrElementNotFound.
type fakeSurface struct {
	mu       sync.Mutex
	elements map[string]*fakeElement
	writes   int
}

func newFakeSurface(ids ...string) *fakeSurface {
	s := &fakeSurface{elements: make(map[string]*fakeElement, len(ids))}
	for _, id := range ids {
		s.elements[id] = &fakeElement{Visible: true}
	}
	return s
}

func (s *fakeSurface) get(id string) (*fakeElement, error) {
	el, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrElementNotFound, id)
	}
	s.writes++
	return el, nil
}

func (s *fakeSurface) SetText(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.get(id)
	if err != nil {
		return err
	}
	el.Text = text
	return nil
}

func (s *fakeSurface) SetImage(id, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.get(id)
	if err != nil {
		return err
	}
	el.Src = src
	return nil
}

func (s *fakeSurface) SetVisible(id string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.get(id)
	if err != nil {
		return err
	}
	el.Visible = visible
	return nil
}

func (s *fakeSurface) element(id string) fakeElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.elements[id]
}

func (s *fakeSurface) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// newTestLogger returns a logger that records entries instead of printing them.
func newTestLogger(t *testing.T) (*logrus.Logger, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// warnings returns the messages of all warning entries recorded by hook.
func warnings(hook *test.Hook) []string {
	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// call builds a Call against surface with a recording logger.
func call(t *testing.T, surface Surface, desc any, value string) (Call, *test.Hook) {
	t.Helper()
	logger, hook := newTestLogger(t)
	return Call{Surface: surface, Log: logger, Descriptor: desc, Value: value}, hook
}
