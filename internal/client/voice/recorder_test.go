package voice

import "sync"

// recorder captures capability events in order.
type recorder struct {
	mu     sync.Mutex
	events []string
	errs   []error
	done   chan struct{}
	once   sync.Once
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{})}
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recorder) finish() {
	r.once.Do(func() { close(r.done) })
}

func (r *recorder) OnTranscript(text string) { r.add("transcript:" + text) }

func (r *recorder) OnStart() { r.add("start") }

func (r *recorder) OnEnd() {
	r.add("end")
	r.finish()
}

func (r *recorder) OnError(err error) {
	r.mu.Lock()
	r.events = append(r.events, "error")
	r.errs = append(r.errs, err)
	r.mu.Unlock()
	r.finish()
}

func (r *recorder) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...), append([]error(nil), r.errs...)
}
