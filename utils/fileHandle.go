package utils

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20

var allowedProofExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}

// SaveUploadedFile stores file under destDir with a random name and returns the name
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedProofExtensions[ext] {
		return "", fmt.Errorf("file type %q not allowed", ext)
	}
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file exceeds %d bytes", maxUploadSize)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return newFilename, nil
}

func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + filename
}

// RemoveUploadedFile deletes a file stored by SaveUploadedFile. An empty name is a no-op.
func RemoveUploadedFile(filename, destDir string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(destDir, filename)); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing upload %s: %v", filename, err)
	}
}
