package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SaveFile writes the artifact into a local directory.
type SaveFile struct {
	Dir string
}

func (s SaveFile) Name() string { return "save-file" }

func (s SaveFile) Deliver(_ context.Context, a Artifact) (string, error) {
	if s.Dir == "" {
		return "", ErrUnavailable
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Host is the host application's own file channel, e.g. a chat upload.
type Host interface {
	SendDocument(ctx context.Context, a Artifact) (string, error)
}

// HostLink hands the artifact to the host application.
type HostLink struct {
	Host Host
}

func (h HostLink) Name() string { return "host-link" }

func (h HostLink) Deliver(ctx context.Context, a Artifact) (string, error) {
	if h.Host == nil {
		return "", ErrUnavailable
	}
	return h.Host.SendDocument(ctx, a)
}

// ObjectStore is the subset of object storage the object link needs.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ObjectLink uploads the artifact and returns a presigned download URL.
type ObjectLink struct {
	Store  ObjectStore
	Prefix string
	TTL    time.Duration
}

func (o ObjectLink) Name() string { return "object-link" }

func (o ObjectLink) Deliver(ctx context.Context, a Artifact) (string, error) {
	if o.Store == nil {
		return "", ErrUnavailable
	}
	key := fmt.Sprintf("%s%s/%s", o.Prefix, uuid.NewString(), filepath.Base(a.Filename))
	if err := o.Store.PutObject(ctx, key, a.ContentType, a.Data); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	ttl := o.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return o.Store.PresignedURL(ctx, key, ttl)
}

// Cache keeps artifacts in memory for a short time.
type Cache interface {
	Put(a Artifact) (id string, err error)
}

// Linker produces a signed download URL for a cached artifact.
type Linker interface {
	DownloadURL(id string) string
}

// Opener opens a URL in the user's browser or a new tab.
type Opener interface {
	OpenLink(ctx context.Context, url string) error
}

// SignedLink serves the artifact from the cache behind a signed URL and asks
// the opener, when present, to open it.
type SignedLink struct {
	Cache  Cache
	Links  Linker
	Opener Opener
}

func (s SignedLink) Name() string { return "signed-link" }

func (s SignedLink) Deliver(ctx context.Context, a Artifact) (string, error) {
	if s.Cache == nil || s.Links == nil {
		return "", ErrUnavailable
	}
	id, err := s.Cache.Put(a)
	if err != nil {
		return "", fmt.Errorf("cache artifact: %w", err)
	}
	url := s.Links.DownloadURL(id)
	if s.Opener != nil {
		if err := s.Opener.OpenLink(ctx, url); err != nil {
			return "", fmt.Errorf("open link: %w", err)
		}
	}
	return url, nil
}

// Notifier shows a message to the user.
type Notifier interface {
	Alert(ctx context.Context, text string) error
}

// NoticeText is shown when nothing could deliver the file automatically.
const NoticeText = "Не вдалося автоматично завантажити файл. Посилання на файл скопійовано, вставте його у браузер."

// ClipboardNotice is the last resort: copy a reference and tell the user.
type ClipboardNotice struct {
	Copy      func(string) error
	Notifier  Notifier
	Reference func(Artifact) string
}

func (c ClipboardNotice) Name() string { return "clipboard-notice" }

func (c ClipboardNotice) Deliver(ctx context.Context, a Artifact) (string, error) {
	ref := a.Filename
	if c.Reference != nil {
		if r := c.Reference(a); r != "" {
			ref = r
		}
	}
	var copyErr error
	if c.Copy != nil {
		copyErr = c.Copy(ref)
	}
	if c.Notifier == nil {
		if c.Copy == nil {
			return "", ErrUnavailable
		}
		return ref, copyErr
	}
	if err := c.Notifier.Alert(ctx, NoticeText+"\n"+ref); err != nil {
		return "", fmt.Errorf("notify: %w", err)
	}
	return ref, nil
}
