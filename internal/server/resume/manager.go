// Package resume manages the bounded collection of uploaded resume PDFs and
// the single designated active resume.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/server/models"
	"github.com/chdeepakkumar/portfolio/internal/server/repository"
	"github.com/chdeepakkumar/portfolio/internal/storage"
)

const (
	// MaxResumes bounds the collection; enforced at upload time.
	MaxResumes = 10

	// MaxUploadBytes is the per-file size ceiling.
	MaxUploadBytes = 1 << 20
)

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// pdfMagic is the signature every PDF payload must start with.
var pdfMagic = []byte("%PDF-")

// Manager is the state machine over the resume file set, keyed by filename.
type Manager struct {
	store  storage.Backend
	repo   *repository.Repository
	logger logging.Logger
}

func NewManager(repo *repository.Repository, logger logging.Logger) *Manager {
	return &Manager{
		store:  repo.Store(),
		repo:   repo,
		logger: logger.With("component", "resumes"),
	}
}

// listPDFs enumerates stored resumes, excluding the metadata object.
func (m *Manager) listPDFs(ctx context.Context) ([]storage.ObjectInfo, error) {
	infos, err := m.store.List(ctx, repository.ResumeDir)
	if err != nil {
		return nil, err
	}
	pdfs := infos[:0]
	for _, info := range infos {
		if info.Name == repository.ResumeMetadataName {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(info.Name), ".pdf") {
			continue
		}
		pdfs = append(pdfs, info)
	}
	return pdfs, nil
}

// List returns all stored resumes, newest first, with IsActive computed
// against the metadata document.
func (m *Manager) List(ctx context.Context) ([]models.ResumeFile, error) {
	md, err := m.repo.ReadResumeMetadata(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := m.listPDFs(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModifiedAt.After(infos[j].ModifiedAt)
	})
	files := make([]models.ResumeFile, 0, len(infos))
	for _, info := range infos {
		files = append(files, models.ResumeFile{
			Filename:   info.Name,
			Size:       info.Size,
			ModifiedAt: info.ModifiedAt,
			IsActive:   md.ActiveResume != nil && *md.ActiveResume == info.Name,
		})
	}
	return files, nil
}

// Upload validates, sanitizes, and stores a new resume. The first resume ever
// stored becomes active automatically.
func (m *Manager) Upload(ctx context.Context, filename string, data []byte) (*models.ResumeFile, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", common.ErrValidation)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds 1MB limit", common.ErrValidation)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%w: only PDF files are allowed", common.ErrValidation)
	}

	existing, err := m.listPDFs(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) >= MaxResumes {
		return nil, fmt.Errorf("%w: maximum number of resumes (%d) reached", common.ErrLimitExceeded, MaxResumes)
	}

	name := SanitizeFilename(filename)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}

	// Disambiguate collisions with a timestamp suffix rather than overwrite.
	target := path.Join(repository.ResumeDir, name)
	if ok, _ := m.store.Exists(ctx, target); ok {
		base := strings.TrimSuffix(name, path.Ext(name))
		name = fmt.Sprintf("%s_%d.pdf", base, time.Now().UnixMilli())
		target = path.Join(repository.ResumeDir, name)
	}

	if err := m.store.WriteBytes(ctx, target, data); err != nil {
		return nil, err
	}

	md, err := m.repo.ReadResumeMetadata(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 && md.ActiveResume == nil {
		md.ActiveResume = &name
		if err := m.repo.WriteResumeMetadata(ctx, md); err != nil {
			return nil, err
		}
		m.logger.Info(ctx, "first resume stored, marked active", "filename", name)
	}

	return &models.ResumeFile{
		Filename:   name,
		Size:       int64(len(data)),
		ModifiedAt: time.Now().UTC(),
		IsActive:   md.ActiveResume != nil && *md.ActiveResume == name,
	}, nil
}

// Activate designates filename as the active resume after verifying the
// binary object exists.
func (m *Manager) Activate(ctx context.Context, filename string) error {
	if err := ValidateFilename(filename); err != nil {
		return err
	}
	ok, _ := m.store.Exists(ctx, path.Join(repository.ResumeDir, filename))
	if !ok {
		return fmt.Errorf("resume %s: %w", filename, common.ErrNotFound)
	}
	md, err := m.repo.ReadResumeMetadata(ctx)
	if err != nil {
		return err
	}
	md.ActiveResume = &filename
	return m.repo.WriteResumeMetadata(ctx, md)
}

// Delete removes a resume. When the deleted file was active, the most
// recently modified survivor becomes active, or the active designation is
// cleared when none remain. Returns the new active filename (nil when none).
func (m *Manager) Delete(ctx context.Context, filename string) (*string, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}
	if filename == repository.ResumeMetadataName {
		return nil, fmt.Errorf("%w: cannot delete metadata file", common.ErrValidation)
	}

	target := path.Join(repository.ResumeDir, filename)
	ok, _ := m.store.Exists(ctx, target)
	if !ok {
		return nil, fmt.Errorf("resume %s: %w", filename, common.ErrNotFound)
	}

	md, err := m.repo.ReadResumeMetadata(ctx)
	if err != nil {
		return nil, err
	}
	wasActive := md.ActiveResume != nil && *md.ActiveResume == filename

	if err := m.store.Delete(ctx, target); err != nil {
		return nil, err
	}

	if wasActive {
		remaining, err := m.listPDFs(ctx)
		if err != nil {
			return nil, err
		}
		if len(remaining) > 0 {
			sort.Slice(remaining, func(i, j int) bool {
				return remaining[i].ModifiedAt.After(remaining[j].ModifiedAt)
			})
			md.ActiveResume = &remaining[0].Name
		} else {
			md.ActiveResume = nil
		}
		if err := m.repo.WriteResumeMetadata(ctx, md); err != nil {
			return nil, err
		}
		m.logger.Info(ctx, "active resume reassigned", "filename", filename)
	}
	return md.ActiveResume, nil
}

// ResolveActive returns the resume currently served as the default download.
// When the designated file has disappeared, an arbitrary present resume is
// treated as active for this read; the invariant is repaired lazily without
// forcing a write. Returns nil when no resumes are stored.
func (m *Manager) ResolveActive(ctx context.Context) (*models.ResumeFile, error) {
	md, err := m.repo.ReadResumeMetadata(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := m.listPDFs(ctx)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}
	if md.ActiveResume != nil {
		for _, info := range infos {
			if info.Name == *md.ActiveResume {
				return &models.ResumeFile{
					Filename:   info.Name,
					Size:       info.Size,
					ModifiedAt: info.ModifiedAt,
					IsActive:   true,
				}, nil
			}
		}
	}
	info := infos[0]
	return &models.ResumeFile{
		Filename:   info.Name,
		Size:       info.Size,
		ModifiedAt: info.ModifiedAt,
		IsActive:   md.ActiveResume != nil && *md.ActiveResume == info.Name,
	}, nil
}

// Download returns the raw bytes of a stored resume.
func (m *Manager) Download(ctx context.Context, filename string) ([]byte, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}
	if filename == repository.ResumeMetadataName {
		return nil, fmt.Errorf("%w: invalid filename", common.ErrValidation)
	}
	return m.store.ReadBytes(ctx, path.Join(repository.ResumeDir, filename))
}

// SanitizeFilename replaces every character outside [a-zA-Z0-9._-] with an
// underscore.
func SanitizeFilename(name string) string {
	return filenameSanitizer.ReplaceAllString(path.Base(name), "_")
}

// ValidateFilename rejects names that could traverse outside the resume
// namespace.
func ValidateFilename(name string) error {
	if name == "" || strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) || filenameSanitizer.MatchString(name) {
		return fmt.Errorf("%w: invalid filename", common.ErrValidation)
	}
	return nil
}
