package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/capreg/internal/capability"
)

// IdleTrack is a single valid animation track.
var IdleTrack = capability.Track{Name: "idle", Frames: []int{0, 1, 2, 3}, FrameDuration: 100 * time.Millisecond, Loop: true}

// FakeSource is a configurable capability.Source.
type FakeSource struct {
	// Decline makes Load return false.
	Decline bool
	// Rewrite, when set, replaces the suggested path.
	Rewrite string
	TrackList []capability.Track
	Size      capability.Size

	// SeenPath records the path suggested to Load.
	SeenPath string
}

// Load implements capability.Source.
func (s *FakeSource) Load(path *string) bool {
	s.SeenPath = *path
	if s.Rewrite != "" {
		*path = s.Rewrite
	}
	return !s.Decline
}

// Tracks implements capability.Source.
func (s *FakeSource) Tracks() []capability.Track { return s.TrackList }

// CellSize implements capability.Source.
func (s *FakeSource) CellSize() capability.Size { return s.Size }

// ValidSource returns a Source with one track and 16x16 cells.
func ValidSource() *FakeSource {
	return &FakeSource{TrackList: []capability.Track{IdleTrack}, Size: capability.Size{W: 16, H: 16}}
}

// SourceOf declares a Source type whose factory returns a fresh copy of tmpl.
func SourceOf(name string, tmpl FakeSource) capability.Descriptor {
	return capability.NewSource(name, func() capability.Source {
		s := tmpl
		return &s
	})
}

// Attachments records Attach calls made on fake controllers and managers.
type Attachments struct {
	mu    sync.Mutex
	calls []string
}

// Record appends one call.
func (a *Attachments) Record(call string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
}

// Calls returns a copy of the recorded calls.
func (a *Attachments) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// FakeController is a capability.Controller recording attachments.
type FakeController struct {
	Name string
	Log  *Attachments
	Err  error
}

// Attach implements capability.Controller.
func (c *FakeController) Attach(_ context.Context, e capability.Entity) error {
	if c.Log != nil {
		c.Log.Record(c.Name + "->" + e.ID())
	}
	return c.Err
}

// FakeManager is a capability.Manager recording attachments and units.
type FakeManager struct {
	Name string
	Log  *Attachments
	Err  error

	Units []capability.Unit
}

// Attach implements capability.Manager.
func (m *FakeManager) Attach(_ context.Context, e capability.Entity, units []capability.Unit) error {
	m.Units = units
	if m.Log != nil {
		m.Log.Record(m.Name + "->" + e.ID())
	}
	return m.Err
}

// FakeUnit is a named capability.Unit.
type FakeUnit string

// Name implements capability.Unit.
func (u FakeUnit) Name() string { return string(u) }

// ControllerOf declares a Controller type.
func ControllerOf(name string, log *Attachments) capability.Descriptor {
	return capability.NewController(name, func() capability.Controller {
		return &FakeController{Name: name, Log: log}
	})
}

// ManagerOf declares a Manager type.
func ManagerOf(name string, log *Attachments) capability.Descriptor {
	return capability.NewManager(name, func() capability.Manager {
		return &FakeManager{Name: name, Log: log}
	})
}

// UnitOf declares a Unit type.
func UnitOf(name string) capability.Descriptor {
	return capability.NewUnit(name, func() capability.Unit { return FakeUnit(name) })
}

// Entity is a capability.Entity with a fixed ID.
type Entity string

// ID implements capability.Entity.
func (e Entity) ID() string { return string(e) }
