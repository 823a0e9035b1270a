package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	broomate_errors "broomate_server/pkg/errors"
)

// File is an in-memory upload candidate.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Storage folders. Each folder maps to one validation category.
const (
	FolderAvatars    = "avatars"
	FolderThumbnails = "thumbnails"
	FolderImages     = "images"
	FolderVideos     = "videos"
	FolderDocuments  = "documents"
)

const (
	maxImageSize    = 10 * 1024 * 1024
	maxVideoSize    = 100 * 1024 * 1024
	maxDocumentSize = 20 * 1024 * 1024
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

var documentExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
}

var imageMimeTypes = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

var videoMimeTypes = map[string]bool{
	"video/mp4": true, "video/quicktime": true, "video/x-msvideo": true,
	"video/x-matroska": true, "video/webm": true,
}

var documentMimeTypes = map[string]bool{
	"application/pdf": true, "application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// ValidateFile checks size, extension and MIME type against the rules of
// the target folder. Violations wrap the invalid-input sentinel.
func ValidateFile(file File, folder string) error {
	if file.Size <= 0 {
		return fmt.Errorf("%w: file %q is empty", broomate_errors.ErrInvalidInput, file.Name)
	}

	var maxSize int64
	var extensions, mimeTypes map[string]bool
	var kind string
	switch folder {
	case FolderAvatars, FolderThumbnails, FolderImages:
		maxSize, extensions, mimeTypes, kind = maxImageSize, imageExtensions, imageMimeTypes, "image"
	case FolderVideos:
		maxSize, extensions, mimeTypes, kind = maxVideoSize, videoExtensions, videoMimeTypes, "video"
	case FolderDocuments:
		maxSize, extensions, mimeTypes, kind = maxDocumentSize, documentExtensions, documentMimeTypes, "document"
	default:
		return fmt.Errorf("%w: unknown storage folder %q", broomate_errors.ErrInvalidInput, folder)
	}

	if file.Size > maxSize {
		return fmt.Errorf("%w: %s %q exceeds %d bytes", broomate_errors.ErrInvalidInput, kind, file.Name, maxSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Name))
	if !extensions[ext] {
		return fmt.Errorf("%w: extension %q is not allowed for %ss", broomate_errors.ErrInvalidInput, ext, kind)
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	if !mimeTypes[mime] {
		return fmt.Errorf("%w: content type %q is not allowed for %ss", broomate_errors.ErrInvalidInput, mime, kind)
	}
	return nil
}

// FolderForContentType routes a message attachment to its storage folder
// by MIME prefix. Anything that is not an image or video is treated as a
// document.
func FolderForContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return FolderImages
	case strings.HasPrefix(contentType, "video/"):
		return FolderVideos
	default:
		return FolderDocuments
	}
}
