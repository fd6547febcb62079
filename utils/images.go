package utils

import (
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const ThumbWidth = 300

// SavedImage holds the public paths of a stored upload.
type SavedImage struct {
	ID        string
	Path      string
	ThumbPath string
}

// SaveImage decodes an uploaded image and writes it as JPEG under dir,
// along with a ThumbWidth wide thumbnail in dir/thumb. Returned paths are
// rooted at publicPrefix.
func SaveImage(file *multipart.FileHeader, dir, publicPrefix string) (SavedImage, error) {
	src, err := file.Open()
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return SavedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	id := GenerateID()
	name := id + ".jpg"
	thumbDir := filepath.Join(dir, "thumb")
	if err := EnsureDir(thumbDir); err != nil {
		return SavedImage{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return SavedImage{}, fmt.Errorf("failed to save original image: %w", err)
	}
	thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, name)); err != nil {
		return SavedImage{}, fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return SavedImage{
		ID:        id,
		Path:      path.Join(publicPrefix, name),
		ThumbPath: path.Join(publicPrefix, "thumb", name),
	}, nil
}

// LocalPath maps a public path produced by SaveImage back to disk. It
// returns "" for paths outside publicPrefix.
func LocalPath(dir, publicPrefix, public string) string {
	rel, ok := strings.CutPrefix(public, strings.TrimSuffix(publicPrefix, "/")+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return ""
	}
	return filepath.Join(dir, filepath.FromSlash(rel))
}
