// manager_test.go - Tests for storage layer
package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/volttools/urdfconv/internal/models"
)

const sampleURDF = `<robot name="r"><link name="l"><visual><geometry><box size="1 1 1"/></geometry></visual></link></robot>`

func createTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates upload directory", func(t *testing.T) {
		uploadDir := filepath.Join(t.TempDir(), "uploads", "robots")

		store, err := NewLocalStore(uploadDir)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		if store.uploadDir != uploadDir {
			t.Errorf("Expected uploadDir %s, got %s", uploadDir, store.uploadDir)
		}
		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			t.Error("Expected upload directory to be created")
		}
	})
}

func TestLocalStore_Save(t *testing.T) {
	t.Run("saves document from reader", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.Save("arm.urdf", strings.NewReader(sampleURDF))
		if err != nil {
			t.Fatalf("Failed to save document: %v", err)
		}

		if info.ID == "" {
			t.Error("Expected ID to be set")
		}
		if info.Name != "arm.urdf" {
			t.Errorf("Expected name 'arm.urdf', got %v", info.Name)
		}
		if info.Size != int64(len(sampleURDF)) {
			t.Errorf("Expected size %d, got %d", len(sampleURDF), info.Size)
		}
		if info.Status != models.DocumentStatusUploaded {
			t.Errorf("Expected status 'uploaded', got %v", info.Status)
		}
	})

	t.Run("creates physical file", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.SaveBytes("arm.urdf", []byte(sampleURDF))
		if err != nil {
			t.Fatalf("Failed to save document: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(store.uploadDir, info.ID))
		if err != nil {
			t.Fatalf("Failed to read saved file: %v", err)
		}
		if string(data) != sampleURDF {
			t.Errorf("Expected content %q, got %q", sampleURDF, string(data))
		}
	})
}

func TestLocalStore_Get(t *testing.T) {
	t.Run("gets existing document", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.Save("arm.urdf", strings.NewReader(sampleURDF))
		if err != nil {
			t.Fatalf("Failed to save document: %v", err)
		}

		retrieved, err := store.Get(info.ID)
		if err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if retrieved.ID != info.ID || retrieved.Name != info.Name {
			t.Errorf("Expected %+v, got %+v", info, retrieved)
		}
	})

	t.Run("returns ErrNotFound for unknown id", func(t *testing.T) {
		store := createTestStore(t)

		_, err := store.Get("non-existent-id")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returned metadata is a copy", func(t *testing.T) {
		store := createTestStore(t)

		info, _ := store.Save("arm.urdf", strings.NewReader(sampleURDF))
		info.Name = "mutated"

		retrieved, _ := store.Get(info.ID)
		if retrieved.Name != "arm.urdf" {
			t.Errorf("Expected stored name to be unchanged, got %v", retrieved.Name)
		}
	})
}

func TestLocalStore_List(t *testing.T) {
	t.Run("limits and sorts by upload time descending", func(t *testing.T) {
		store := createTestStore(t)

		ids := make([]string, 4)
		for i := range ids {
			info, err := store.Save("arm.urdf", strings.NewReader(sampleURDF))
			if err != nil {
				t.Fatalf("Failed to save document: %v", err)
			}
			ids[i] = info.ID
			time.Sleep(10 * time.Millisecond) // Ensure different timestamps
		}

		docs, err := store.List(3)
		if err != nil {
			t.Fatalf("Failed to list documents: %v", err)
		}
		if len(docs) != 3 {
			t.Fatalf("Expected 3 documents, got %d", len(docs))
		}
		if docs[0].ID != ids[3] {
			t.Error("Expected documents to be sorted by time descending")
		}

		all, _ := store.List(0)
		if len(all) != 4 {
			t.Errorf("Expected 4 documents without a limit, got %d", len(all))
		}
	})
}

func TestLocalStore_Delete(t *testing.T) {
	t.Run("deletes existing document", func(t *testing.T) {
		store := createTestStore(t)

		info, err := store.Save("arm.urdf", strings.NewReader(sampleURDF))
		if err != nil {
			t.Fatalf("Failed to save document: %v", err)
		}
		filePath := filepath.Join(store.uploadDir, info.ID)

		if err := store.Delete(info.ID); err != nil {
			t.Fatalf("Failed to delete document: %v", err)
		}
		if _, err := store.Get(info.ID); err == nil {
			t.Error("Expected error when getting deleted document")
		}
		if _, err := os.Stat(filePath); !os.IsNotExist(err) {
			t.Error("Physical file should be deleted")
		}
	})

	t.Run("returns error for non-existent document", func(t *testing.T) {
		store := createTestStore(t)

		if err := store.Delete("non-existent-id"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestLocalStore_Rename(t *testing.T) {
	store := createTestStore(t)

	info, _ := store.Save("old.urdf", strings.NewReader(sampleURDF))
	updated, err := store.Rename(info.ID, "new.urdf")
	if err != nil {
		t.Fatalf("Failed to rename document: %v", err)
	}
	if updated.Name != "new.urdf" {
		t.Errorf("Expected name 'new.urdf', got %v", updated.Name)
	}

	if _, err := store.Rename("missing", "x"); err == nil {
		t.Error("Expected error when renaming non-existent document")
	}
}

func TestLocalStore_ReadAll(t *testing.T) {
	store := createTestStore(t)

	info, _ := store.SaveBytes("arm.urdf", []byte(sampleURDF))
	data, err := store.ReadAll(info.ID)
	if err != nil {
		t.Fatalf("Failed to read document: %v", err)
	}
	if !bytes.Equal(data, []byte(sampleURDF)) {
		t.Error("Read data doesn't match original")
	}

	if _, err := store.ReadAll("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalStore_ConversionStatus(t *testing.T) {
	store := createTestStore(t)
	info, _ := store.SaveBytes("arm.urdf", []byte(sampleURDF))

	robot := models.NewRobot("arm")
	robot.Links["l"] = models.Link{}
	robot.Joints["a"] = models.Joint{}
	robot.Joints["b"] = models.Joint{}

	converted, err := store.MarkConverted(info.ID, robot)
	if err != nil {
		t.Fatalf("Failed to mark converted: %v", err)
	}
	if converted.Status != models.DocumentStatusConverted || converted.RobotName != "arm" {
		t.Errorf("Unexpected converted info: %+v", converted)
	}
	if converted.LinkCount != 1 || converted.JointCount != 2 {
		t.Errorf("Expected 1 link and 2 joints, got %d and %d", converted.LinkCount, converted.JointCount)
	}

	failed, err := store.MarkFailed(info.ID, errors.New("missing attribute"))
	if err != nil {
		t.Fatalf("Failed to mark failed: %v", err)
	}
	if failed.Status != models.DocumentStatusError || failed.Error != "missing attribute" {
		t.Errorf("Unexpected failed info: %+v", failed)
	}
	if failed.LinkCount != 0 {
		t.Errorf("Expected counts to be reset, got %d links", failed.LinkCount)
	}

	if _, err := store.MarkConverted("missing", robot); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
