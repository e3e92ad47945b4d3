// Package interfaces defines the contracts between the polypill API packages
// so stores, loaders and validators can be swapped in tests.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/regimen"
)

// CatalogQualityReport summarises data-quality issues in a loaded catalog
type CatalogQualityReport struct {
	DuplicateNames          []string // names repeated modulo case
	DuplicateRulePairs      []string // "A / B" pairs covered by more than one rule
	UnknownRuleDrugs        []string // rule drugs missing from the medication table
	MedicationsWithoutRules int
	PromoCodesOver50Percent []string
}

// CatalogStore holds the current catalog and swaps it atomically on reload.
type CatalogStore interface {
	GetCatalog() *catalog.Catalog
	UpdateCatalog(c *catalog.Catalog)
	GetLastUpdated() time.Time
	GetServerStartTime() time.Time
	IsUpdating() bool
	BeginUpdate() bool
	EndUpdate()
	SetReloadError(err error)
	GetReloadError() error
}

// SessionStore keeps one regimen State per visitor. Update runs fn under the
// session lock so mutations of a single session never interleave.
type SessionStore interface {
	Create() (string, regimen.State, error)
	Get(id string) (regimen.State, error)
	Update(id string, fn func(regimen.State) regimen.State) (regimen.State, error)
	Delete(id string) bool
	EvictIdle(ttl time.Duration) int
	Count() int
}

// CatalogLoader produces a validated catalog from its source
type CatalogLoader interface {
	Load() (*catalog.Catalog, error)
	Source() string
}

// Scheduler manages background jobs
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports service health
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator sanitises values coming from the HTTP shell before they
// reach the core, and reports on catalog data quality.
type InputValidator interface {
	ValidateInput(input string) error
	ValidateDosage(input string) error
	ValidatePromoCode(input string) error
	ValidateSessionID(input string) error
	ReportCatalogQuality(entries []catalog.Entry, rules []catalog.InteractionRule, promos []catalog.PromoCode) *CatalogQualityReport
}

// HTTPHandler is the set of endpoints served by the API
type HTTPHandler interface {
	ListCatalog(w http.ResponseWriter, r *http.Request)
	FindMedication(w http.ResponseWriter, r *http.Request)
	ListInteractionRules(w http.ResponseWriter, r *http.Request)

	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
	AddMedication(w http.ResponseWriter, r *http.Request)
	RemoveMedication(w http.ResponseWriter, r *http.Request)
	ApplyPromo(w http.ResponseWriter, r *http.Request)
	PlaceOrder(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}
