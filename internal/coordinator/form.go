package coordinator

import "sync"

// FieldURL is the form field holding the team URL.
const FieldURL = "url"

// Form is the input a create is submitted from.
type Form interface {
	Get(name string) string
	Reset()
}

// InputForm is an in-memory Form.
type InputForm struct {
	mu     sync.Mutex
	values map[string]string
}

// NewInputForm returns a form pre-filled with values.
func NewInputForm(values map[string]string) *InputForm {
	f := &InputForm{values: make(map[string]string, len(values))}
	for k, v := range values {
		f.values[k] = v
	}
	return f
}

func (f *InputForm) Get(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

func (f *InputForm) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[name] = value
}

// Reset clears every field.
func (f *InputForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string]string)
}
