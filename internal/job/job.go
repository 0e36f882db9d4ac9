package job

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Type describes the seniority bucket of a posting.
type Type string

const (
	TypeNewGrad     Type = "new_grad"
	TypeInternship  Type = "internship"
	TypeEntryLevel  Type = "entry_level"
	TypeExperienced Type = "experienced"
)

// RemoteOption describes the work arrangement of a posting.
type RemoteOption string

const (
	RemoteOnsite  RemoteOption = "onsite"
	RemoteRemote  RemoteOption = "remote"
	RemoteHybrid  RemoteOption = "hybrid"
	RemoteUnknown RemoteOption = "unknown"
)

// CollectionMethod identifies how a posting was collected.
type CollectionMethod string

const (
	MethodGithubMarkdown CollectionMethod = "github_markdown"
	MethodWebScraping    CollectionMethod = "web_scraping"
	MethodAPI            CollectionMethod = "api"
)

// Job is the canonical representation of one posting. Every collector
// produces this shape and every downstream consumer reads it. A Job is a
// value object: once created it is never mutated, enrichment builds new
// records instead.
type Job struct {
	Company   string `json:"company" validate:"required"`
	Position  string `json:"position" validate:"required"`
	ApplyLink string `json:"apply_link" validate:"required,startswith=http"`

	Location    string `json:"location,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Description string `json:"description,omitempty"`

	Requirements []string `json:"requirements,omitempty"`
	Benefits     []string `json:"benefits,omitempty"`

	Type            Type   `json:"job_type,omitempty"`
	ExperienceLevel string `json:"experience_level,omitempty"`

	PostedDate      string `json:"posted_date,omitempty"`
	DaysSincePosted *int   `json:"days_since_posted,omitempty"`

	RemoteOption    RemoteOption `json:"remote_option,omitempty"`
	VisaSponsorship *bool        `json:"visa_sponsorship,omitempty"`

	Source           string           `json:"source" validate:"required"`
	CollectionMethod CollectionMethod `json:"collection_method" validate:"required"`
	CollectedAt      time.Time        `json:"collected_at"`

	Field       string `json:"field,omitempty"`
	CompanyType string `json:"company_type,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims the text fields and fills the enum defaults and the
// collection timestamp. Collectors call it once right after building a
// record; CollectedAt is assigned here and never touched again.
func (j *Job) Normalize() {
	j.Company = strings.TrimSpace(j.Company)
	j.Position = strings.TrimSpace(j.Position)
	j.ApplyLink = strings.TrimSpace(j.ApplyLink)

	if j.Type == "" {
		j.Type = TypeNewGrad
	}
	if j.RemoteOption == "" {
		j.RemoteOption = RemoteUnknown
	}
	if j.CollectedAt.IsZero() {
		j.CollectedAt = time.Now().UTC()
	}
}

// Validate reports whether the record satisfies the schema contract.
// Records failing validation are dropped by the caller, never stored with
// placeholder data.
func (j *Job) Validate() error {
	return validate.Struct(j)
}

// DedupKey is the identity used for near-duplicate removal inside a
// single collection batch: lower-cased position and company.
func (j *Job) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(j.Position)) + "|" + strings.ToLower(strings.TrimSpace(j.Company))
}

// Dedup returns a new slice with later duplicates (by DedupKey) removed,
// preserving encounter order.
func Dedup(jobs []*Job) []*Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]*Job, 0, len(jobs))
	for _, j := range jobs {
		key := j.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, j)
	}
	return out
}
