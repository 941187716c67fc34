package models

import "time"

// SourceFormat identifies the encoding a resume document arrived in.
type SourceFormat string

const (
	SourceFormatPDF       SourceFormat = "pdf"
	SourceFormatDOCX      SourceFormat = "docx"
	SourceFormatPlainText SourceFormat = "txt"
)

// SectionKind classifies a resume section by its role.
type SectionKind string

const (
	SectionHeader         SectionKind = "header"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionSummary        SectionKind = "summary"
	SectionCertifications SectionKind = "certifications"
	SectionOther          SectionKind = "other"
)

// SectionFormatting carries the visual styling observed on a section in the
// source document. Only DOCX sources populate it; it is treated as an
// immutable value so the synthesizer can rebuild "same formatting,
// different text".
type SectionFormatting struct {
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
	FontSizePt float64 `json:"font_size_pt"`
	FontFamily string  `json:"font_family"`
	Alignment  string  `json:"alignment"`
}

// Section is one segmented block of the resume.
type Section struct {
	Kind       SectionKind        `json:"kind"`
	Title      string             `json:"title,omitempty"`
	Content    string             `json:"content"`
	Items      []string           `json:"items,omitempty"`
	Formatting *SectionFormatting `json:"formatting,omitempty"`
}

// WorkExperience is one employment entry, ordered most-recent-first in
// StructuredResume. Bullet order matches the order bullets appear in the
// owning section's Items; downstream components address bullets by the
// flattened index over WorkExperiences.
type WorkExperience struct {
	Company      string   `json:"company"`
	Title        string   `json:"title"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	IsCurrent    bool     `json:"is_current"`
	Location     string   `json:"location,omitempty"`
	BulletPoints []string `json:"bullet_points"`
}

// Education is one education entry.
type Education struct {
	School         string `json:"school"`
	Degree         string `json:"degree"`
	Field          string `json:"field,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty"`
	GPA            string `json:"gpa,omitempty"`
	Location       string `json:"location,omitempty"`
}

// Contact holds the contact fields scraped from the resume.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// StructuredResume is the extraction result for one uploaded document.
// It is rebuilt wholesale on every upload, never patched incrementally.
type StructuredResume struct {
	FullText         string           `json:"full_text"`
	Sections         []Section        `json:"sections"`
	WorkExperiences  []WorkExperience `json:"work_experiences"`
	EducationEntries []Education      `json:"education_entries"`
	Skills           []string         `json:"skills"`
	Contact          Contact          `json:"contact"`
	DesiredTitle     string           `json:"desired_title,omitempty"`
	SourceBytes      []byte           `json:"-"`
	SourceFormat     SourceFormat     `json:"source_format"`
}

// FlattenedBullets returns all work-experience bullets in document order.
// The index into this slice is the bullet index used by the enhancer and
// the synthesizer.
func (r *StructuredResume) FlattenedBullets() []string {
	var bullets []string
	for _, exp := range r.WorkExperiences {
		bullets = append(bullets, exp.BulletPoints...)
	}
	return bullets
}

// JobPosting is a read-only job record supplied by the caller.
type JobPosting struct {
	ID                      string   `json:"id"`
	Title                   string   `json:"title"`
	CompanyName             string   `json:"company_name"`
	Description             string   `json:"description"`
	RequiredSkills          []string `json:"required_skills"`
	PreferredSkills         []string `json:"preferred_skills"`
	RequiredExperienceYears int      `json:"required_experience_years,omitempty"`
	Location                string   `json:"location,omitempty"`
	SalaryRange             string   `json:"salary_range,omitempty"`
}

// MatchDetails carries the evidence behind a score breakdown.
type MatchDetails struct {
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	ExperienceGap   string   `json:"experience_gap_description"`
	TitleSimilarity string   `json:"title_similarity_description"`
	KeywordMatches  int      `json:"keyword_matches"`
	TotalKeywords   int      `json:"total_keywords"`
}

// MatchScoreBreakdown is the weighted match score between one resume and
// one job posting. It is recomputed on demand and never stored as a
// source of truth. All score fields are integers in [0,100].
type MatchScoreBreakdown struct {
	Overall    int          `json:"overall"`
	Skills     int          `json:"skills"`
	Experience int          `json:"experience"`
	Title      int          `json:"title"`
	Keywords   int          `json:"keywords"`
	Details    MatchDetails `json:"details"`
}

// BulletStatus tracks the lifecycle of one rewritten bullet.
//
//	unchanged -> enhancedPendingWrite -> enhancedWritten | enhancedNotWritten
type BulletStatus string

const (
	BulletUnchanged            BulletStatus = "unchanged"
	BulletEnhancedPendingWrite BulletStatus = "enhancedPendingWrite"
	BulletEnhancedWritten      BulletStatus = "enhancedWritten"
	BulletEnhancedNotWritten   BulletStatus = "enhancedNotWritten"
)

// BulletUpdateStatus records what happened to one bullet, addressed by its
// flattened index. Populated by the enhancer, finalized by the synthesizer.
type BulletUpdateStatus struct {
	BulletIndex       int          `json:"bullet_index"`
	AIEnhanced        bool         `json:"ai_enhanced"`
	WrittenToDocument bool         `json:"written_to_document"`
	Status            BulletStatus `json:"status"`
}

// EnhancedExperience holds the rewritten bullets for one work experience,
// parallel to WorkExperience.BulletPoints.
type EnhancedExperience struct {
	ExperienceIndex int      `json:"experience_index"`
	Bullets         []string `json:"bullets"`
}

// EnhancedResume is the content-enhancer output: the original resume plus
// rewritten bullets, a tailored summary and a cover-letter body.
type EnhancedResume struct {
	Resume         StructuredResume     `json:"resume"`
	Experiences    []EnhancedExperience `json:"experiences"`
	Summary        string               `json:"summary"`
	CoverLetter    string               `json:"cover_letter"`
	BulletStatuses []BulletUpdateStatus `json:"bullet_statuses"`
}

// GeneratedMaterials is the per-job cache entry for tailored output. The
// caller owns durable persistence; this core defines the shape and keeps a
// working copy keyed by job id.
type GeneratedMaterials struct {
	JobID          string         `json:"job_id"`
	Enhanced       EnhancedResume `json:"enhanced"`
	ResumeDocument []byte         `json:"resume_document,omitempty"`
	CoverLetterDoc []byte         `json:"cover_letter_document,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
