package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions are the resume document formats the extractor accepts.
var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// FileHandler manages the uploads directory holding resume documents.
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a file handler rooted at uploadsDir.
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{uploadsDir: uploadsDir}
}

// IsSupported reports whether a filename has a supported resume extension.
func IsSupported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SaveUploadedFile writes an uploaded document into the uploads directory
// and returns its path.
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

// LatestDocument returns the name and bytes of the most recently modified
// supported document in the uploads directory.
func (fh *FileHandler) LatestDocument() (string, []byte, error) {
	entries, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("no documents uploaded yet")
		}
		return "", nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	type candidate struct {
		name    string
		modTime int64
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{entry.Name(), info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("no supported documents in uploads directory")
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})

	name := candidates[0].name
	data, err := os.ReadFile(filepath.Join(fh.uploadsDir, name))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read document %s: %w", name, err)
	}
	return name, data, nil
}

// ClearUploads removes all files from the uploads directory.
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
