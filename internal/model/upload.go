package model

import "io"

// Upload is a single file handed to the media store.
// Size is the exact byte count when known, -1 otherwise.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Empty reports whether the upload has no content to send.
func (u Upload) Empty() bool {
	return u.Body == nil || u.Size == 0
}

// ImageUpdate says what an update does to a review's attached images:
// leave them untouched, or replace them wholesale.
type ImageUpdate struct {
	replace bool
	files   []Upload
}

// KeepImages leaves the existing image references untouched.
func KeepImages() ImageUpdate {
	return ImageUpdate{}
}

// ReplaceImages replaces every existing image with files.
// An empty list is equivalent to KeepImages.
func ReplaceImages(files []Upload) ImageUpdate {
	return ImageUpdate{replace: len(files) > 0, files: files}
}

// Replaces reports whether the update replaces the attached images.
func (u ImageUpdate) Replaces() bool {
	return u.replace
}

// Files returns the replacement files; nil when images are kept.
func (u ImageUpdate) Files() []Upload {
	if !u.replace {
		return nil
	}
	return u.files
}
