package generation

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	MaxUploads      = 10
	MinReadyUploads = 5
)

// UploadFile is a single source photo of the subject.
type UploadFile struct {
	ID       string
	Filename string
	MimeType string
	Data     []byte
	// Preview is a data URL suitable for rendering the photo back to the user.
	Preview string
}

// IsAllowedImageType reports whether mimeType is PNG or JPEG.
func IsAllowedImageType(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	}
	return false
}

// DetectMimeType sniffs the content type of data, falling back to the declared type.
func DetectMimeType(declared string, data []byte) string {
	if IsAllowedImageType(declared) {
		return declared
	}
	return http.DetectContentType(data)
}

// Collector gathers source photos up to MaxUploads, keeping insertion order.
type Collector struct {
	mu    sync.Mutex
	files []UploadFile
	seq   int
	now   func() time.Time
}

func NewCollector() *Collector {
	return &Collector{now: time.Now}
}

// Add appends files in order. Files beyond the remaining capacity are
// dropped silently; the returned slice holds the accepted ones. A kept file
// that is not PNG or JPEG fails the whole call and nothing is added.
func (c *Collector) Add(files ...UploadFile) ([]UploadFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := MaxUploads - len(c.files)
	if room <= 0 {
		return nil, nil
	}
	if len(files) > room {
		files = files[:room]
	}

	for _, f := range files {
		if !IsAllowedImageType(DetectMimeType(f.MimeType, f.Data)) {
			return nil, fmt.Errorf("%s: only PNG and JPEG images are supported", f.Filename)
		}
	}

	accepted := make([]UploadFile, 0, len(files))
	for _, f := range files {
		c.seq++
		f.MimeType = DetectMimeType(f.MimeType, f.Data)
		f.ID = fmt.Sprintf("%s-%d-%d", f.Filename, c.now().UnixNano(), c.seq)
		if f.Preview == "" {
			f.Preview = EncodeDataURL(f.MimeType, f.Data)
		}
		c.files = append(c.files, f)
		accepted = append(accepted, f)
	}
	return accepted, nil
}

// Remove drops the file with the given id. Unknown ids are ignored.
func (c *Collector) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, f := range c.files {
		if f.ID == id {
			c.files = append(c.files[:i], c.files[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Collector) Reset() {
	c.mu.Lock()
	c.files = nil
	c.mu.Unlock()
}

// Files returns the collected photos in insertion order.
func (c *Collector) Files() []UploadFile {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]UploadFile, len(c.files))
	copy(out, c.files)
	return out
}

func (c *Collector) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files) >= MinReadyUploads
}

func (c *Collector) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MaxUploads - len(c.files)
}
