package sim

// Engine drains an EventQueue in time order, advancing CurrentTime as
// it goes. It is deliberately serial: this simulator has no need for
// the teacher's parallel/secondary-queue machinery, only a single
// thread of cycles.
type Engine struct {
	queue *EventQueue
	now   Cycle
}

// NewEngine creates an Engine around a fresh EventQueue.
func NewEngine() *Engine {
	return &Engine{queue: NewEventQueue()}
}

// CurrentTime reports the cycle the engine is currently processing, or
// the cycle of the last event it processed if it is idle.
func (e *Engine) CurrentTime() Cycle {
	return e.now
}

// Schedule enqueues evt. Callers normally build evt with a time
// relative to CurrentTime, e.g. NewTickEvent(e.CurrentTime()+1, h).
func (e *Engine) Schedule(evt Event) {
	e.queue.Schedule(evt)
}

// Pending reports whether any event remains in the queue.
func (e *Engine) Pending() bool {
	return e.queue.Len() > 0
}

// Step pops and delivers the single next event, advancing CurrentTime
// to its timestamp. It reports false if the queue was empty.
func (e *Engine) Step() bool {
	if e.queue.Len() == 0 {
		return false
	}

	evt := e.queue.Pop()
	e.now = evt.Time()

	if err := evt.Handler().Handle(evt); err != nil {
		panic(err)
	}

	return true
}

// Run drains the queue until it is empty or until an event at a time
// beyond maxCycle would be processed, whichever comes first. It
// returns the number of events processed.
func (e *Engine) Run(maxCycle Cycle) int {
	processed := 0

	for e.queue.Len() > 0 {
		if e.queue.Peek().Time() > maxCycle {
			break
		}

		e.Step()
		processed++
	}

	return processed
}
