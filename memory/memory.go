package memory

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "memory")

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 100

// ErrDuplicateID is returned when an entry with the same ID exists.
var ErrDuplicateID = errors.New("memory entry already exists")

// Memory is a bounded FIFO store of entries.
type Memory struct {
	lock     sync.RWMutex
	capacity int
	entries  []Entry
	index    map[string]int
	seq      uint64
	now      func() time.Time
	evicted  func(Entry)
}

// Option configures the Memory.
type Option func(*Memory)

// WithClock sets the time source for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// WithEvictionHook sets a function called with every evicted entry.
func WithEvictionHook(fn func(Entry)) Option {
	return func(m *Memory) {
		m.evicted = fn
	}
}

// New returns an empty Memory.
// Capacity below 1 is replaced with DefaultCapacity.
func New(capacity int, opts ...Option) *Memory {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	m := &Memory{
		capacity: capacity,
		index:    make(map[string]int),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Capacity returns the maximum number of entries.
func (m *Memory) Capacity() int {
	return m.capacity
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.entries)
}

// Add appends the content and returns the entry ID.
// When the store is full, the oldest entry is evicted first.
func (m *Memory) Add(content Content, opts ...EntryOption) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	e := Entry{
		Content:   content,
		Timestamp: m.now(),
	}
	for _, opt := range opts {
		opt(&e)
	}

	if e.ID == "" {
		// generated IDs are never reused after eviction
		for {
			m.seq++
			e.ID = fmt.Sprintf("memory_%d", m.seq)
			if _, ok := m.index[e.ID]; !ok {
				break
			}
		}
	} else if _, ok := m.index[e.ID]; ok {
		return "", errors.Wrapf(ErrDuplicateID, "id %q", e.ID)
	}

	if len(m.entries) >= m.capacity {
		oldest := m.entries[0]
		m.entries = append(m.entries[:0:0], m.entries[1:]...)
		m.reindex()
		logger.KV(xlog.DEBUG, "reason", "evicted", "id", oldest.ID)
		if m.evicted != nil {
			m.evicted(oldest)
		}
	}

	m.index[e.ID] = len(m.entries)
	m.entries = append(m.entries, e)
	return e.ID, nil
}

// Get returns a copy of the entry.
func (m *Memory) Get(id string) (Entry, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	idx, ok := m.index[id]
	if !ok {
		return Entry{}, false
	}
	return m.entries[idx].clone(), true
}

// Recent returns up to count latest entries, oldest first.
func (m *Memory) Recent(count int) []Entry {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if count <= 0 || len(m.entries) == 0 {
		return []Entry{}
	}
	start := max(len(m.entries)-count, 0)
	return cloneEntries(m.entries[start:])
}

// Search returns the entries whose content or metadata contains
// the keyword, case-insensitive, in chronological order.
func (m *Memory) Search(keyword string) []Entry {
	m.lock.RLock()
	defer m.lock.RUnlock()

	keyword = strings.ToLower(keyword)
	res := []Entry{}
	for _, e := range m.entries {
		if strings.Contains(searchText(e), keyword) {
			res = append(res, e.clone())
		}
	}
	return res
}

func searchText(e Entry) string {
	var sb strings.Builder
	if js, err := json.Marshal(e.Content); err == nil {
		sb.Write(js)
	}
	if len(e.Metadata) > 0 {
		if js, err := json.Marshal(e.Metadata); err == nil {
			sb.Write(js)
		}
	}
	return strings.ToLower(sb.String())
}

// Update replaces the content and/or metadata of the entry.
// A nil argument keeps the current value. The timestamp is refreshed.
// Returns false if the entry does not exist.
func (m *Memory) Update(id string, content *Content, metadata map[string]any) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	idx, ok := m.index[id]
	if !ok {
		return false
	}
	e := &m.entries[idx]
	if content != nil {
		e.Content = *content
	}
	if metadata != nil {
		e.Metadata = maps.Clone(metadata)
	}
	e.Timestamp = m.now()
	return true
}

// Delete removes the entry. Returns false if the entry does not exist.
func (m *Memory) Delete(id string) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	idx, ok := m.index[id]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:idx:idx], m.entries[idx+1:]...)
	m.reindex()
	return true
}

// Snapshot returns the count latest entries with the total number of entries.
func (m *Memory) Snapshot(count int) Snapshot {
	recent := m.Recent(count)
	return Snapshot{
		RecentMemories: recent,
		MemoryCount:    m.Len(),
		Timestamp:      m.now(),
	}
}

// All returns a copy of all entries, oldest first.
func (m *Memory) All() []Entry {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return cloneEntries(m.entries)
}

// Clear removes all entries.
func (m *Memory) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.entries = nil
	m.index = make(map[string]int)
}

func (m *Memory) reindex() {
	m.index = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		m.index[e.ID] = i
	}
}

func cloneEntries(list []Entry) []Entry {
	res := make([]Entry, len(list))
	for i, e := range list {
		res[i] = e.clone()
	}
	return res
}
