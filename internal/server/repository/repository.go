// Package repository provides typed accessors for the three logical documents
// kept in the storage backend: the admin user document, the portfolio content
// tree, and the resume metadata.
//
// Every accessor follows the same pattern: a missing document is synthesized
// from a built-in default, while a present-but-malformed document is never
// overwritten. The reader degrades to an empty, valid in-memory structure
// and the corrupt bytes stay on disk for manual recovery.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chdeepakkumar/portfolio/internal/common"
	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/server/models"
	"github.com/chdeepakkumar/portfolio/internal/storage"
)

// Storage layout, relative to the content root.
const (
	UsersPath          = "users.json"
	KnowledgeDir       = "knowledge"
	PortfolioPath      = KnowledgeDir + "/portfolio.json"
	ResumeDir          = "resume"
	ResumeMetadataName = ".resume-metadata.json"
	ResumeMetadataPath = ResumeDir + "/" + ResumeMetadataName
)

// Repository reads and writes the logical documents through a Backend.
type Repository struct {
	store      storage.Backend
	adminEmail string
	logger     logging.Logger
}

// New constructs a Repository. adminEmail seeds the default user document on
// first read; it may be empty only if that read never happens.
func New(store storage.Backend, adminEmail string, logger logging.Logger) *Repository {
	return &Repository{
		store:      store,
		adminEmail: adminEmail,
		logger:     logger.With("component", "repository"),
	}
}

// Store exposes the underlying backend for collaborators that manage raw
// binary objects (resume PDFs, knowledge files) next to the documents.
func (r *Repository) Store() storage.Backend {
	return r.store
}

func marshalDoc(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: marshaling document: %v", common.ErrRepository, err)
	}
	return string(b), nil
}

// ReadUsers returns the user document, synthesizing and persisting the
// default single-admin document on first read. The default requires a
// configured admin email; a placeholder address is never substituted.
func (r *Repository) ReadUsers(ctx context.Context) (*models.UserDocument, error) {
	raw, err := r.store.Read(ctx, UsersPath)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return r.createDefaultUsers(ctx)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrRepository, UsersPath, err)
	}

	var doc models.UserDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		r.logger.Error(ctx, "user document contains invalid JSON, preserving file",
			"path", UsersPath, "error", err)
		return &models.UserDocument{Users: []models.UserAccount{}}, nil
	}
	return &doc, nil
}

func (r *Repository) createDefaultUsers(ctx context.Context) (*models.UserDocument, error) {
	if r.adminEmail == "" {
		return nil, fmt.Errorf("%w: admin email is required to create the user document", common.ErrConfig)
	}
	doc := &models.UserDocument{
		Users: []models.UserAccount{{
			ID:        uuid.NewString(),
			Username:  "admin",
			Email:     r.adminEmail,
			CreatedAt: time.Now().UTC(),
		}},
	}
	if err := r.WriteUsers(ctx, doc); err != nil {
		return nil, err
	}
	r.logger.Info(ctx, "default user document created", "path", UsersPath)
	return doc, nil
}

// WriteUsers persists the user document with write verification.
func (r *Repository) WriteUsers(ctx context.Context, doc *models.UserDocument) error {
	raw, err := marshalDoc(doc)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, UsersPath, raw, true); err != nil {
		return fmt.Errorf("%w: writing %s: %v", common.ErrRepository, UsersPath, err)
	}
	return nil
}

// ReadPortfolio returns the portfolio document. A missing document is
// replaced by the built-in default and persisted; malformed content degrades
// to an empty document without touching the stored bytes.
func (r *Repository) ReadPortfolio(ctx context.Context) (*models.PortfolioDocument, error) {
	raw, err := r.store.Read(ctx, PortfolioPath)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return r.createDefaultPortfolio(ctx)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrRepository, PortfolioPath, err)
	}

	var doc models.PortfolioDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		r.logger.Error(ctx, "portfolio contains invalid JSON, preserving file",
			"path", PortfolioPath, "error", err)
		empty := &models.PortfolioDocument{}
		empty.Normalize()
		return empty, nil
	}
	doc.Normalize()
	return &doc, nil
}

func (r *Repository) createDefaultPortfolio(ctx context.Context) (*models.PortfolioDocument, error) {
	doc := DefaultPortfolio()
	if err := r.WritePortfolio(ctx, doc); err != nil {
		// The default is still usable in memory; the next read will try the
		// write again.
		r.logger.Error(ctx, "failed to persist default portfolio", "error", err)
		return doc, nil
	}
	r.logger.Info(ctx, "default portfolio created", "path", PortfolioPath)
	return doc, nil
}

// WritePortfolio persists the portfolio document with write verification.
func (r *Repository) WritePortfolio(ctx context.Context, doc *models.PortfolioDocument) error {
	doc.Normalize()
	raw, err := marshalDoc(doc)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, PortfolioPath, raw, true); err != nil {
		return fmt.Errorf("%w: writing %s: %v", common.ErrRepository, PortfolioPath, err)
	}
	return nil
}

// ReadResumeMetadata returns the resume metadata, defaulting to an empty
// document. The default is not persisted: nothing is written until the first
// resume operation needs to record state.
func (r *Repository) ReadResumeMetadata(ctx context.Context) (*models.ResumeMetadata, error) {
	raw, err := r.store.Read(ctx, ResumeMetadataPath)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &models.ResumeMetadata{Resumes: []string{}}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrRepository, ResumeMetadataPath, err)
	}

	var md models.ResumeMetadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		r.logger.Error(ctx, "resume metadata contains invalid JSON, preserving file",
			"path", ResumeMetadataPath, "error", err)
		return &models.ResumeMetadata{Resumes: []string{}}, nil
	}
	if md.Resumes == nil {
		md.Resumes = []string{}
	}
	return &md, nil
}

// WriteResumeMetadata persists the resume metadata with write verification.
func (r *Repository) WriteResumeMetadata(ctx context.Context, md *models.ResumeMetadata) error {
	raw, err := marshalDoc(md)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, ResumeMetadataPath, raw, true); err != nil {
		return fmt.Errorf("%w: writing %s: %v", common.ErrRepository, ResumeMetadataPath, err)
	}
	return nil
}
