package plist

import (
	"sync"

	"github.com/wippyai/proplist"
)

// SyncList guards a List with a read-write lock so it can be shared, for
// example by the goroutines serving one connection. Lookups take the read
// lock; anything that changes the list takes the write lock.
type SyncList struct {
	list *List
	mu   sync.RWMutex
}

// NewSync wraps l. The caller must stop using l directly.
func NewSync(l *List) *SyncList {
	return &SyncList{list: l}
}

// Do runs fn with exclusive access, for compound updates.
func (s *SyncList) Do(fn func(*List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.list)
}

// View runs fn with shared access.
func (s *SyncList) View(fn func(*List) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.list)
}

func (s *SyncList) DefineProperty(index int, name string, ignoreReserved bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.DefineProperty(index, name, ignoreReserved)
}

func (s *SyncList) InitProperty(index int, name string, value any, typ TypeRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.InitProperty(index, name, value, typ)
}

func (s *SyncList) SetValue(index int, value any, typ TypeRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.SetValue(index, value, typ)
}

func (s *SyncList) AssignValue(name string, value any, typ TypeRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.AssignValue(name, value, typ)
}

func (s *SyncList) SetType(index int, typ TypeRef) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.SetType(index, typ)
}

func (s *SyncList) NameProperty(index int, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.NameProperty(index, name)
}

func (s *SyncList) DeleteProperty(index int, name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.DeleteProperty(index, name)
}

func (s *SyncList) GetValue(index int) (Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.GetValue(index)
}

func (s *SyncList) FindValue(name string) (Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.FindValue(name)
}

func (s *SyncList) Each(fn func(Property) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.list.Each(fn)
}

func (s *SyncList) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Len()
}

// Duplicate copies the list under the write lock, since the copy shares
// the source's observer.
func (s *SyncList) Duplicate(target proplist.Pool, useNewPool bool) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Duplicate(target, useNewPool)
}

func (s *SyncList) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Destroy()
}
