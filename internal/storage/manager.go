package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volttools/urdfconv/internal/models"
)

// ErrNotFound is returned for unknown document IDs.
var ErrNotFound = errors.New("document not found")

// Store defines the interface for robot description storage.
type Store interface {
	Save(name string, r io.Reader) (*models.DocumentInfo, error)
	SaveBytes(name string, data []byte) (*models.DocumentInfo, error)
	Get(id string) (*models.DocumentInfo, error)
	List(limit int) ([]*models.DocumentInfo, error)
	Delete(id string) error
	Rename(id string, newName string) (*models.DocumentInfo, error)
	GetFilePath(id string) (string, error)
	ReadAll(id string) ([]byte, error)
	MarkConverted(id string, robot *models.Robot) (*models.DocumentInfo, error)
	MarkFailed(id string, cause error) (*models.DocumentInfo, error)
}

// LocalStore implements Store using the local filesystem.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	files     map[string]*models.DocumentInfo
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		files:     make(map[string]*models.DocumentInfo),
	}, nil
}

// Save saves a document to the local filesystem.
func (s *LocalStore) Save(name string, r io.Reader) (*models.DocumentInfo, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	info := &models.DocumentInfo{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
		Status:     models.DocumentStatusUploaded,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = info

	return copyInfo(info), nil
}

// SaveBytes saves an in-memory document.
func (s *LocalStore) SaveBytes(name string, data []byte) (*models.DocumentInfo, error) {
	return s.Save(name, bytes.NewReader(data))
}

// Get retrieves document metadata by ID.
func (s *LocalStore) Get(id string) (*models.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return copyInfo(info), nil
}

// List returns the most recent documents.
func (s *LocalStore) List(limit int) ([]*models.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.DocumentInfo, 0, len(s.files))
	for _, info := range s.files {
		list = append(list, copyInfo(info))
	}

	// Sort by UploadedAt desc
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes a document from storage.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.files, id)
	return nil
}

// Rename updates the display name of a document.
func (s *LocalStore) Rename(id string, newName string) (*models.DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	info.Name = newName
	return copyInfo(info), nil
}

// GetFilePath returns the absolute path to a stored document.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return filepath.Join(s.uploadDir, id), nil
}

// ReadAll returns the raw content of a stored document.
func (s *LocalStore) ReadAll(id string) ([]byte, error) {
	path, err := s.GetFilePath(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// MarkConverted records a successful conversion summary.
func (s *LocalStore) MarkConverted(id string, robot *models.Robot) (*models.DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	info.Status = models.DocumentStatusConverted
	info.RobotName = robot.Name
	info.LinkCount = len(robot.Links)
	info.JointCount = len(robot.Joints)
	info.Error = ""
	return copyInfo(info), nil
}

// MarkFailed records a failed conversion.
func (s *LocalStore) MarkFailed(id string, cause error) (*models.DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	info.Status = models.DocumentStatusError
	info.RobotName = ""
	info.LinkCount = 0
	info.JointCount = 0
	if cause != nil {
		info.Error = cause.Error()
	}
	return copyInfo(info), nil
}

func copyInfo(info *models.DocumentInfo) *models.DocumentInfo {
	c := *info
	return &c
}
