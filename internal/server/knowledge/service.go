// Package knowledge manages the supplementary JSON documents the chatbot
// consumes. Files live next to the portfolio document under knowledge/; the
// portfolio file itself is readable here but protected from deletion.
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/server/repository"
	"github.com/chdeepakkumar/portfolio/internal/storage"
)

const (
	// MaxFiles bounds the knowledge collection; enforced at upload time.
	MaxFiles = 20

	// MaxUploadBytes is the per-file size ceiling.
	MaxUploadBytes = 1 << 20
)

var (
	validName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	sanitizer = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// FileInfo describes one stored knowledge file.
type FileInfo struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified"`
}

// Service provides CRUD over the knowledge file set.
type Service struct {
	store  storage.Backend
	logger logging.Logger
}

func NewService(repo *repository.Repository, logger logging.Logger) *Service {
	return &Service{store: repo.Store(), logger: logger.With("component", "knowledge")}
}

// List returns the stored JSON files, newest first.
func (s *Service) List(ctx context.Context) ([]FileInfo, error) {
	infos, err := s.store.List(ctx, repository.KnowledgeDir)
	if err != nil {
		return nil, err
	}
	files := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		if !strings.HasSuffix(info.Name, ".json") {
			continue
		}
		files = append(files, FileInfo{Filename: info.Name, Size: info.Size, ModifiedAt: info.ModifiedAt})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}

// Get returns the parsed content of one knowledge file.
func (s *Service) Get(ctx context.Context, filename string) (map[string]any, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}
	raw, err := s.store.Read(ctx, path.Join(repository.KnowledgeDir, filename))
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %s contains invalid JSON", common.ErrRepository, filename)
	}
	return data, nil
}

// Upload validates and stores a new knowledge file. Content must be a
// non-empty JSON object; filenames are sanitized and disambiguated with a
// timestamp so uploads never overwrite each other.
func (s *Service) Upload(ctx context.Context, filename string, content []byte) (*FileInfo, error) {
	if len(content) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds 1MB limit", common.ErrValidation)
	}

	data, err := parseObject(content)
	if err != nil {
		return nil, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) >= MaxFiles {
		return nil, fmt.Errorf("%w: maximum file limit reached (%d files)", common.ErrLimitExceeded, MaxFiles)
	}

	name := sanitize(filename)
	if name == "" {
		name = "knowledge"
	}
	name = strings.TrimSuffix(name, ".json")
	name = fmt.Sprintf("%s-%d.json", name, time.Now().UnixMilli())

	// Re-serialize the validated object so stored files are uniformly
	// formatted regardless of how the upload was indented.
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling knowledge file: %v", common.ErrRepository, err)
	}

	target := path.Join(repository.KnowledgeDir, name)
	if err := s.store.Write(ctx, target, string(pretty), true); err != nil {
		return nil, err
	}

	info, err := s.store.Stat(ctx, target)
	if err != nil {
		// The write verified; stat lag on the remote backend is tolerable.
		s.logger.Warn(ctx, "stat after knowledge upload failed", "path", target, "error", err)
		info = storage.ObjectInfo{Name: name, Size: int64(len(pretty)), ModifiedAt: time.Now().UTC()}
	}
	s.logger.Info(ctx, "knowledge file stored", "filename", name)
	return &FileInfo{Filename: name, Size: info.Size, ModifiedAt: info.ModifiedAt}, nil
}

// Delete removes a knowledge file. The main portfolio document is exempt.
func (s *Service) Delete(ctx context.Context, filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	if filename == path.Base(repository.PortfolioPath) {
		return fmt.Errorf("%w: cannot delete the main portfolio file", common.ErrValidation)
	}
	return s.store.Delete(ctx, path.Join(repository.KnowledgeDir, filename))
}

func parseObject(content []byte) (map[string]any, error) {
	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON syntax: %v", common.ErrValidation, err)
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: JSON must be an object, not an array or primitive", common.ErrValidation)
	}
	if len(obj) == 0 {
		return nil, fmt.Errorf("%w: JSON object cannot be empty", common.ErrValidation)
	}
	return obj, nil
}

func validateFilename(name string) error {
	if name == "" || strings.Contains(name, "..") || !validName.MatchString(name) ||
		!strings.HasSuffix(name, ".json") {
		return fmt.Errorf("%w: invalid filename", common.ErrValidation)
	}
	return nil
}

func sanitize(name string) string {
	return sanitizer.ReplaceAllString(path.Base(name), "_")
}
