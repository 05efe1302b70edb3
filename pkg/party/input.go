package party

import "sync"

// TermInput is an Input holding a single submitted value.
type TermInput struct {
	mu    sync.Mutex
	value string
}

func (i *TermInput) Value() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.value
}

func (i *TermInput) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.value = ""
}

func NewTermInput(value string) *TermInput {
	return &TermInput{value: value}
}

var _ Input = &TermInput{}
