package models

import "time"

// ResumeMetadata is the persisted shape of resume/.resume-metadata.json.
//
// ActiveResume names the file served as the default download; nil means no
// resume is active. Resumes is a legacy field kept for compatibility with
// existing metadata objects; the authoritative listing is derived by listing
// the binary store at runtime.
type ResumeMetadata struct {
	ActiveResume *string  `json:"activeResume"`
	Resumes      []string `json:"resumes"`
}

// ResumeFile is a stored PDF plus metadata derived at list time.
type ResumeFile struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified"`
	IsActive   bool      `json:"isActive"`
}
