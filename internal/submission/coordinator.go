package submission

import "sync"

// Mode is the visible section of the client.
type Mode int

const (
	ModeListing Mode = iota
	ModeCreate
)

func (m Mode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "listing"
}

// Coordinator owns the view mode and reacts to form events. Handle can be passed as Options.Notify.
type Coordinator struct {
	mu        sync.Mutex
	mode      Mode
	refreshes int
	onRefresh func()
}

// NewCoordinator starts in listing mode. onRefresh may be nil.
func NewCoordinator(onRefresh func()) *Coordinator {
	return &Coordinator{mode: ModeListing, onRefresh: onRefresh}
}

func (c *Coordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Coordinator) ShowCreate() {
	c.setMode(ModeCreate)
}

func (c *Coordinator) ShowListing() {
	c.setMode(ModeListing)
}

func (c *Coordinator) setMode(m Mode) {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
}

// Refreshes counts EventRefresh deliveries.
func (c *Coordinator) Refreshes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}

func (c *Coordinator) Handle(e Event) {
	c.mu.Lock()
	switch e {
	case EventRefresh:
		c.refreshes++
	case EventSubmitted:
		c.mode = ModeListing
	}
	hook := c.onRefresh
	c.mu.Unlock()

	if e == EventRefresh && hook != nil {
		hook()
	}
}
