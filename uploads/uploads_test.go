package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestFileName(t *testing.T) {
	s := NewStore(t.TempDir(), "https://api.test/")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	name, err := s.FileName("Crème Visage.jpg.jpg")
	require.NoError(t, err)
	assert.Equal(t, "1700000000_creme-visage.jpg", name)

	name, err = s.FileName("LOGO.PNG")
	require.NoError(t, err)
	assert.Equal(t, "1700000000_logo.png", name)

	_, err = s.FileName("script.sh")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "uploads"), "https://api.test/")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := s.Save(fileHeader(t, "rose.png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "https://api.test/uploads/1700000000_rose.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "1700000000_rose.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = s.Save(fileHeader(t, "../../etc/passwd", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, time.Date(2025, 5, 1, 2, 0, 0, 0, loc), NextRun(time.Date(2025, 5, 1, 1, 30, 0, 0, loc), 2, 0))
	assert.Equal(t, time.Date(2025, 5, 2, 2, 0, 0, 0, loc), NextRun(time.Date(2025, 5, 1, 2, 0, 0, 0, loc), 2, 0))
}

func TestBackupAndCleanup(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "products", "a.png"), []byte("a"), 0o644))

	backups := t.TempDir()
	now := time.Now()
	dest, err := Backup(src, backups, now)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dest, "products", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	old := filepath.Join(backups, "old")
	require.NoError(t, os.MkdirAll(old, 0o755))
	past := now.Add(-5 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	assert.Equal(t, 1, CleanupOldBackups(backups, 4*24*time.Hour, now))
	assert.NoDirExists(t, old)
	assert.DirExists(t, dest)
}

func TestStartDailyBackupStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartDailyBackup(ctx, t.TempDir(), t.TempDir(), time.Hour, 2, 0) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("backup loop did not stop")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("a"), 0o644))

	require.NoError(t, s.Remove("../a.png"))
	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
	assert.ErrorIs(t, s.Remove("a.png"), ErrNotFound)
}
