package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveFile writes an uploaded file under folder using a fresh random name
// and returns the stored filename.
func SaveFile(file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s%s", GenerateID(12), filepath.Ext(header.Filename))
	out, err := os.Create(filepath.Join(folder, filename))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return filename, nil
}

// CreateThumb renders a width x height thumbnail next to the original,
// under a "thumb" subdirectory with the same filename.
func CreateThumb(filename, folder string, width, height int) error {
	src, err := imaging.Open(filepath.Join(folder, filename))
	if err != nil {
		return err
	}
	thumb := imaging.Thumbnail(src, width, height, imaging.Lanczos)

	thumbDir := filepath.Join(folder, "thumb")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return err
	}
	return imaging.Save(thumb, filepath.Join(thumbDir, filename))
}
