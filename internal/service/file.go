package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/models"
	"folio/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Upload defaults.
const (
	DefaultUploadDir       = "./uploads"
	DefaultUploadMaxSizeMB = 10
	DefaultPreviewSize     = 640
	PreviewQuality         = 75
	MaxImagePixels         = 40_000_000
	FileURLPrefix          = "/files/"
	previewSuffix          = ".preview.webp"
)

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".txt": true, ".md": true, ".zip": true,
}

var storedNamePattern = regexp.MustCompile(`^[0-9a-f]{32}(\.[a-z0-9]{1,5})?(\.preview\.webp)?$`)

// StoredFile describes an uploaded file.
type StoredFile struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url,omitempty"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// FileService stores uploads on local disk under random names.
type FileService struct {
	dir          string
	maxSizeBytes int64
	previewSize  int
	log          *observability.ServiceLogger
}

// NewFileService creates a FileService from the upload settings of cfg.
func NewFileService(cfg *config.Config) *FileService {
	dir := DefaultUploadDir
	maxMB := DefaultUploadMaxSizeMB
	preview := DefaultPreviewSize
	if cfg != nil {
		if cfg.UploadDir != "" {
			dir = cfg.UploadDir
		}
		if cfg.UploadMaxSizeMB > 0 {
			maxMB = cfg.UploadMaxSizeMB
		}
		if cfg.UploadPreviewSize > 0 {
			preview = cfg.UploadPreviewSize
		}
	}
	return &FileService{
		dir:          dir,
		maxSizeBytes: int64(maxMB) * 1024 * 1024,
		previewSize:  preview,
		log:          observability.NewServiceLogger("files"),
	}
}

// MaxSizeBytes is the largest accepted upload.
func (s *FileService) MaxSizeBytes() int64 {
	return s.maxSizeBytes
}

// Store writes content under a new name that keeps the extension of
// originalName. Raster images also get a WebP preview.
func (s *FileService) Store(ctx context.Context, actor auth.Identity, originalName string, content []byte) (*StoredFile, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxSizeBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return nil, models.NewValidationError("Unsupported file type")
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	contentType := http.DetectContentType(content)
	path := filepath.Join(s.dir, name)
	if err := writeBytesToFile(path, content); err != nil {
		return nil, models.NewInternalError(err)
	}

	stored := &StoredFile{
		Filename:    name,
		URL:         FileURLPrefix + name,
		ContentType: contentType,
		SizeBytes:   int64(len(content)),
	}

	if isRasterImage(contentType) {
		preview, err := s.buildPreview(content)
		if err != nil {
			_ = os.Remove(path)
			return nil, models.NewValidationError("Invalid image file")
		}
		previewName := name + previewSuffix
		if err := writeBytesToFile(filepath.Join(s.dir, previewName), preview); err != nil {
			_ = os.Remove(path)
			return nil, models.NewInternalError(err)
		}
		stored.PreviewURL = FileURLPrefix + previewName
	}

	s.log.LogCall(ctx, "Store", map[string]any{
		"user_id":      actor.SubjectID,
		"filename":     name,
		"content_type": contentType,
		"size":         stored.SizeBytes,
	})
	return stored, nil
}

// Resolve maps a stored file name to its path on disk. Names that were not
// produced by Store are rejected, which rules out path traversal.
func (s *FileService) Resolve(filename string) (string, error) {
	if !storedNamePattern.MatchString(filename) {
		return "", models.NewNotFoundError("File", filename)
	}
	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", models.NewNotFoundError("File", filename)
	}
	return path, nil
}

func (s *FileService) buildPreview(content []byte) ([]byte, error) {
	// The header is checked first so a tiny file cannot claim a huge canvas.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("image dimensions %dx%d exceed limit", cfg.Width, cfg.Height)
	}
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	resized := resizeToFit(decoded, s.previewSize, s.previewSize)
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: PreviewQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isRasterImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
