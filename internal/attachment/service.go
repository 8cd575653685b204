package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"time"

	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
	"github.com/banzai-team/spoon-rebalancing/pkg/storage"
)

// attachmentURLExpiry bounds presigned URLs on object stores. Local
// storage ignores it.
const attachmentURLExpiry = 24 * time.Hour

// ErrNoFiles is returned when an upload batch is empty.
var ErrNoFiles = errors.New("upload batch is empty")

// ErrUploadFailed wraps a storage write failure. The response contract is
// all-or-nothing: callers never see a partial-success list, though files
// written before the failure stay on disk.
var ErrUploadFailed = errors.New("upload failed")

// File is one user-selected blob to store.
type File struct {
	Name        string
	Content     io.Reader
	Size        int64
	ContentType string
}

// unsafeNameChars matches every character a stored name must not carry.
var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9.\-_]`)

// Service persists attachment batches and hands back addressable URLs.
type Service struct {
	store     storage.Storage
	keyPrefix string
	now       func() time.Time
}

// NewService creates an attachment service writing under keyPrefix
// (e.g. "uploads") in the given store.
func NewService(store storage.Storage, keyPrefix string) *Service {
	return &Service{
		store:     store,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

// StoredName derives the collision-resistant stored name for a file:
// submission time in unix millis plus the sanitized original name. Two
// identical names in the same millisecond are the only residual clash.
func StoredName(at time.Time, originalName string) string {
	sanitized := unsafeNameChars.ReplaceAllString(path.Base(originalName), "_")
	return fmt.Sprintf("%d-%s", at.UnixMilli(), sanitized)
}

// Upload durably writes each file in order and returns one attachment per
// file. Writes are sequential within a batch, so two files of the same
// batch cannot race on storage. A failing write aborts the batch; files
// already written are NOT rolled back.
func (s *Service) Upload(ctx context.Context, files []File) ([]domain.UploadedAttachment, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	l := log.Ctx(ctx)
	at := s.now()

	attachments := make([]domain.UploadedAttachment, 0, len(files))
	for _, f := range files {
		storedName := StoredName(at, f.Name)
		key := path.Join(s.keyPrefix, storedName)

		if err := s.store.Write(ctx, key, f.Content, f.Size, f.ContentType); err != nil {
			l.Error().Err(err).Str("file", f.Name).Msg("attachment write failed")
			return nil, fmt.Errorf("%w: %s: %v", ErrUploadFailed, f.Name, err)
		}

		url, err := s.store.GetURL(ctx, key, attachmentURLExpiry)
		if err != nil {
			l.Error().Err(err).Str("file", f.Name).Msg("attachment url resolution failed")
			return nil, fmt.Errorf("%w: %s: %v", ErrUploadFailed, f.Name, err)
		}

		attachments = append(attachments, domain.UploadedAttachment{
			OriginalName: f.Name,
			StoredName:   storedName,
			URL:          url,
		})
	}

	l.Info().Int("count", len(attachments)).Msg("attachment batch stored")
	return attachments, nil
}
