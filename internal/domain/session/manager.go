package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/armadillo-os/shell/internal/infrastructure/monitoring"
	"github.com/armadillo-os/shell/internal/shared/id"
	"github.com/armadillo-os/shell/internal/shared/types"
)

// Errors returned by the manager.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session file")
)

const fileSuffix = ".json.gz"

// Session is a named snapshot of the workspace.
type Session struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Workspace   types.Workspace `json:"workspace"`
}

// ClusterStore is the part of the cluster controller the session
// manager needs to snapshot and restore the workspace.
type ClusterStore interface {
	List() []types.Cluster
	Stats() types.Stats
	Restore(clusters []types.Cluster, focusedID string)
}

// Manager persists workspace sessions as gzip-compressed JSON files.
type Manager struct {
	store   ClusterStore
	dir     string
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu    sync.RWMutex
	cache map[string]*Session
}

// NewManager creates a session manager writing to dir.
func NewManager(store ClusterStore, dir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		dir:    dir,
		logger: logger,
		cache:  make(map[string]*Session),
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Save snapshots the current workspace under a new session ID.
func (m *Manager) Save(name, description string) (*Session, error) {
	if strings.TrimSpace(name) == "" {
		name = "workspace-" + time.Now().Format("2006-01-02-150405")
	}

	now := time.Now()
	sess := &Session{
		ID:          string(id.NewSessionID()),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		Workspace: types.Workspace{
			Clusters:  m.store.List(),
			FocusedID: focusedCluster(m.store.Stats()),
			SavedAt:   now,
		},
	}

	if err := m.write(sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[sess.ID] = sess
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncSessionsSaved()
	}
	m.logger.Info("Session saved",
		zap.String("session_id", sess.ID),
		zap.String("name", sess.Name),
		zap.Int("clusters", len(sess.Workspace.Clusters)))

	return sess, nil
}

// Load reads a session by ID without applying it.
func (m *Manager) Load(sessionID string) (*Session, error) {
	m.mu.RLock()
	cached, ok := m.cache[sessionID]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	sess, err := m.read(m.path(sessionID))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[sess.ID] = sess
	m.mu.Unlock()

	return sess, nil
}

// Restore loads a session and replaces the live workspace with it.
func (m *Manager) Restore(sessionID string) (*Session, error) {
	sess, err := m.Load(sessionID)
	if err != nil {
		return nil, err
	}

	m.store.Restore(sess.Workspace.Clusters, sess.Workspace.FocusedID)

	if m.metrics != nil {
		m.metrics.IncSessionsRestored()
	}
	m.logger.Info("Session restored",
		zap.String("session_id", sess.ID),
		zap.Int("clusters", len(sess.Workspace.Clusters)))

	return sess, nil
}

// List returns all saved sessions, newest first.
func (m *Manager) List() ([]*Session, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session dir: %w", err)
	}

	sessions := make([]*Session, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		sess, err := m.read(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			m.logger.Warn("Skipping unreadable session file",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Delete removes a saved session.
func (m *Manager) Delete(sessionID string) error {
	m.mu.Lock()
	delete(m.cache, sessionID)
	m.mu.Unlock()

	if err := os.Remove(m.path(sessionID)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	m.logger.Info("Session deleted", zap.String("session_id", sessionID))
	return nil
}

func (m *Manager) path(sessionID string) string {
	return filepath.Join(m.dir, sessionID+fileSuffix)
}

// write marshals and compresses the session, then renames it into
// place so readers never observe a partial file.
func (m *Manager) write(sess *Session) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := sonic.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if _, err := zw.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to compress session: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to compress session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path(sess.ID)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (m *Manager) read(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	defer zr.Close()

	var sess Session
	dec := sonic.ConfigDefault.NewDecoder(zr)
	if err := dec.Decode(&sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if sess.ID == "" {
		return nil, ErrInvalidSession
	}
	return &sess, nil
}

func focusedCluster(stats types.Stats) string {
	if stats.FocusedClusterID == nil {
		return ""
	}
	return *stats.FocusedClusterID
}
