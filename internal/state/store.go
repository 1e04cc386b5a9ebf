// Package state is the explicit application-state store shared by the
// screens: growth progress, the sidebar flag, the current analysis and the
// generated and active project lists. It is a view-data cache; the server
// remains the owner of every record.
package state

import (
	"sync"

	"careerdeck/internal/logging"
	"careerdeck/internal/types"
)

// DefaultProgress is the progress of the Seed growth stage.
const DefaultProgress = 15

// Field identifies what changed in a notification.
type Field string

const (
	FieldProgress          Field = "progress"
	FieldSidebar           Field = "sidebar"
	FieldProfile           Field = "profile"
	FieldGeneratedProjects Field = "generated_projects"
	FieldActiveProjects    Field = "active_projects"
)

// Snapshot is a copy of the store's state.
type Snapshot struct {
	Progress          int
	SidebarOpen       bool
	Profile           *types.ResumeAnalysis
	GeneratedProjects []types.GeneratedProject
	ActiveProjects    []types.Project
}

// Listener is called synchronously after every change, outside the lock.
type Listener func(Field, Snapshot)

// Store holds application state. The zero value is not usable; use New.
type Store struct {
	mu        sync.RWMutex
	s         Snapshot
	listeners map[int]Listener
	nextID    int
}

// New creates a store with the initial defaults: progress at the Seed stage
// and the sidebar open.
func New() *Store {
	return &Store{
		s:         Snapshot{Progress: DefaultProgress, SidebarOpen: true},
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers l and returns a function that removes it.
func (st *Store) Subscribe(l Listener) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.listeners[id] = l
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.listeners, id)
		st.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.copyLocked()
}

func (st *Store) copyLocked() Snapshot {
	out := st.s
	if st.s.Profile != nil {
		p := *st.s.Profile
		out.Profile = &p
	}
	out.GeneratedProjects = append([]types.GeneratedProject(nil), st.s.GeneratedProjects...)
	out.ActiveProjects = append([]types.Project(nil), st.s.ActiveProjects...)
	return out
}

// mutate applies fn under the lock and notifies listeners afterwards.
func (st *Store) mutate(field Field, fn func(*Snapshot)) {
	st.mu.Lock()
	fn(&st.s)
	snap := st.copyLocked()
	listeners := make([]Listener, 0, len(st.listeners))
	for _, l := range st.listeners {
		listeners = append(listeners, l)
	}
	st.mu.Unlock()

	logging.StateDebug("state changed: %s", field)
	for _, l := range listeners {
		l(field, snap)
	}
}

// Progress returns the growth progress percentage.
func (st *Store) Progress() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Progress
}

// SetProgress sets progress, clamped to [0, 100].
func (st *Store) SetProgress(v int) {
	st.mutate(FieldProgress, func(s *Snapshot) { s.Progress = clampProgress(v) })
}

// IncreaseProgress adds delta to progress, capped at 100.
func (st *Store) IncreaseProgress(delta int) {
	st.mutate(FieldProgress, func(s *Snapshot) { s.Progress = clampProgress(s.Progress + delta) })
}

func clampProgress(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// SidebarOpen reports whether the navigation sidebar is shown.
func (st *Store) SidebarOpen() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.SidebarOpen
}

// SetSidebarOpen shows or hides the sidebar.
func (st *Store) SetSidebarOpen(open bool) {
	st.mutate(FieldSidebar, func(s *Snapshot) { s.SidebarOpen = open })
}

// ToggleSidebar flips the sidebar flag.
func (st *Store) ToggleSidebar() {
	st.mutate(FieldSidebar, func(s *Snapshot) { s.SidebarOpen = !s.SidebarOpen })
}

// Profile returns the current resume analysis, or nil.
func (st *Store) Profile() *types.ResumeAnalysis {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.s.Profile == nil {
		return nil
	}
	p := *st.s.Profile
	return &p
}

// SetProfile replaces the current resume analysis.
func (st *Store) SetProfile(p *types.ResumeAnalysis) {
	st.mutate(FieldProfile, func(s *Snapshot) {
		if p == nil {
			s.Profile = nil
			return
		}
		cp := *p
		s.Profile = &cp
	})
}

// GeneratedProjects returns the project lab list.
func (st *Store) GeneratedProjects() []types.GeneratedProject {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]types.GeneratedProject(nil), st.s.GeneratedProjects...)
}

// SetGeneratedProjects replaces the project lab list.
func (st *Store) SetGeneratedProjects(projects []types.GeneratedProject) {
	st.mutate(FieldGeneratedProjects, func(s *Snapshot) {
		s.GeneratedProjects = append([]types.GeneratedProject(nil), projects...)
	})
}

// ActiveProjects returns the started projects.
func (st *Store) ActiveProjects() []types.Project {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]types.Project(nil), st.s.ActiveProjects...)
}

// SetActiveProjects replaces the started projects.
func (st *Store) SetActiveProjects(projects []types.Project) {
	st.mutate(FieldActiveProjects, func(s *Snapshot) {
		s.ActiveProjects = append([]types.Project(nil), projects...)
	})
}

// AddActiveProject appends a started project.
func (st *Store) AddActiveProject(p types.Project) {
	st.mutate(FieldActiveProjects, func(s *Snapshot) {
		s.ActiveProjects = append(s.ActiveProjects, p)
	})
}
