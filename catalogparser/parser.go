package catalogparser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/giygas/polypill-api/catalog"
	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/logging"
)

// Compile-time checks
var (
	_ interfaces.CatalogLoader = (*DirLoader)(nil)
	_ interfaces.CatalogLoader = BuiltinLoader{}
)

// NewLoader returns a loader for dir, or the built-in catalog when dir is empty
func NewLoader(dir string, validator interfaces.InputValidator) interfaces.CatalogLoader {
	if dir == "" {
		return BuiltinLoader{}
	}
	return NewDirLoader(dir, validator)
}

// BuiltinLoader serves the catalog compiled into the binary
type BuiltinLoader struct{}

func (BuiltinLoader) Load() (*catalog.Catalog, error) {
	return catalog.Default(), nil
}

func (BuiltinLoader) Source() string {
	return "built-in"
}

// DirLoader reads medications.tsv, interactions.tsv and the optional
// promocodes.tsv from a directory
type DirLoader struct {
	dir       string
	validator interfaces.InputValidator
}

// NewDirLoader creates a loader for dir. validator may be nil to skip the
// quality report.
func NewDirLoader(dir string, validator interfaces.InputValidator) *DirLoader {
	return &DirLoader{dir: dir, validator: validator}
}

func (l *DirLoader) Source() string {
	return l.dir
}

// Load parses the three files concurrently and builds a validated catalog.
// When promocodes.tsv is absent the built-in promo codes are kept.
func (l *DirLoader) Load() (*catalog.Catalog, error) {
	var (
		wg sync.WaitGroup

		entries  []catalog.Entry
		rules    []catalog.InteractionRule
		promos   []catalog.PromoCode
		entryErr error
		ruleErr  error
		promoErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		entries, entryErr = readFile(l.path(MedicationsFile), parseMedications)
	}()
	go func() {
		defer wg.Done()
		rules, ruleErr = readFile(l.path(InteractionsFile), parseInteractions)
	}()
	go func() {
		defer wg.Done()
		promos, promoErr = readFile(l.path(PromoCodesFile), parsePromoCodes)
	}()
	wg.Wait()

	if entryErr != nil {
		return nil, fmt.Errorf("failed to load medications: %w", entryErr)
	}
	if ruleErr != nil {
		return nil, fmt.Errorf("failed to load interaction rules: %w", ruleErr)
	}
	if errors.Is(promoErr, fs.ErrNotExist) {
		logging.Info("No promo code file, keeping built-in promo codes", "dir", l.dir)
		promos, promoErr = catalog.Default().ListPromoCodes(), nil
	}
	if promoErr != nil {
		return nil, fmt.Errorf("failed to load promo codes: %w", promoErr)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no medications found in %s", l.path(MedicationsFile))
	}

	if l.validator != nil {
		l.validator.ReportCatalogQuality(entries, rules, promos)
	}

	c, err := catalog.New(entries, rules, promos)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog in %s: %w", l.dir, err)
	}

	logging.Info("Catalog files parsed",
		"dir", l.dir,
		"medications", len(entries),
		"rules", len(rules),
		"promo_codes", len(promos))

	return c, nil
}

func (l *DirLoader) path(name string) string {
	return filepath.Join(l.dir, name)
}

func readFile[T any](path string, parse func(r io.Reader) ([]T, skipStats, error)) ([]T, error) {
	r, err := openDecoded(path)
	if err != nil {
		return nil, err
	}

	records, stats, err := parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	stats.log(filepath.Base(path), len(records))
	return records, nil
}
