package views

import (
	"qatrack/backend"
	"qatrack/internal/config"
	"qatrack/internal/utils"
)

// DefaultPageSize is used until settings provide one
const DefaultPageSize = 25

// Projection is the current view onto the case collection: active suite,
// status filter and page. Changing the suite, filter or page size returns to page 1.
type Projection struct {
	suiteID      string
	statusFilter string
	page         int
	pageSize     int
}

// PageResult is one rendered page of a projection
type PageResult struct {
	Items      []backend.TestCase `json:"items" yaml:"items"`
	Page       int                `json:"page" yaml:"page"`
	TotalPages int                `json:"total_pages" yaml:"total_pages"`
	TotalItems int                `json:"total_items" yaml:"total_items"`
}

// NewProjection creates a projection showing all statuses of suiteID
func NewProjection(suiteID string, pageSize int) *Projection {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Projection{
		suiteID:      suiteID,
		statusFilter: StatusAll,
		page:         1,
		pageSize:     pageSize,
	}
}

func (p *Projection) SuiteID() string      { return p.suiteID }
func (p *Projection) StatusFilter() string { return p.statusFilter }
func (p *Projection) CurrentPage() int     { return p.page }
func (p *Projection) PageSize() int        { return p.pageSize }

// SetSuite switches the active suite
func (p *Projection) SetSuite(suiteID string) {
	p.suiteID = suiteID
	p.page = 1
}

// SetStatusFilter switches the status filter. It accepts StatusAll or a valid status.
func (p *Projection) SetStatusFilter(filter string) error {
	normalized, err := ValidateStatusFilter(filter)
	if err != nil {
		return err
	}
	p.statusFilter = normalized
	p.page = 1
	return nil
}

// SetPageSize changes the page size
func (p *Projection) SetPageSize(size int) error {
	if err := utils.ValidatePageSize(size); err != nil {
		return &backend.ValidationError{Field: "page_size", Message: err.Error()}
	}
	if size != p.pageSize {
		p.pageSize = size
		p.page = 1
	}
	return nil
}

// SetPage moves to page, clamped to the pages available for cases
func (p *Projection) SetPage(cases []backend.TestCase, page int) int {
	filtered := Filter(cases, p.suiteID, p.statusFilter)
	p.page = ClampPage(page, TotalPages(len(filtered), p.pageSize))
	return p.page
}

// Page returns the visible slice of cases. A page left stale by a shrinking
// collection is clamped first so results are never hidden.
func (p *Projection) Page(cases []backend.TestCase) PageResult {
	filtered := Filter(cases, p.suiteID, p.statusFilter)
	total := TotalPages(len(filtered), p.pageSize)
	p.page = ClampPage(p.page, total)

	return PageResult{
		Items:      Paginate(filtered, p.pageSize, p.page),
		Page:       p.page,
		TotalPages: total,
		TotalItems: len(filtered),
	}
}

// ApplySettings takes the page size from s. Subscribe it to a config.SettingsHub
// to follow changes.
func (p *Projection) ApplySettings(s config.Settings) {
	if err := p.SetPageSize(s.PageSize); err != nil {
		utils.Warnf("views: ignoring page size from settings: %v", err)
	}
}
