package output

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/invoicer/invoicer/internal/domain"
)

// monthLayout renders a period's month as e.g. "Mar_24".
const monthLayout = "Jan_06"

// Store is a file-based implementation of domain.OutputStore. Invoices live
// at <root>/<kind>/<prefix>_<Mon>_<YY>.html.
type Store struct {
	root   string
	prefix string
}

// New creates a Store rooted at root.
func New(root, prefix string) *Store {
	return &Store{root: root, prefix: prefix}
}

// Path returns where the invoice for kind and period is written.
func (s *Store) Path(kind domain.Kind, period domain.BillingPeriod) string {
	return filepath.Join(s.dir(kind), FileName(s.prefix, period))
}

// Exists reports whether the invoice file is already on disk.
func (s *Store) Exists(kind domain.Kind, period domain.BillingPeriod) (bool, error) {
	info, err := os.Stat(s.Path(kind, period))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Write stores the rendered invoice, creating directories as needed.
func (s *Store) Write(kind domain.Kind, period domain.BillingPeriod, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir(kind), 0755); err != nil {
		return "", err
	}

	path := s.Path(kind, period)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the HTML invoices of kind in name order. A missing directory
// is an empty list.
func (s *Store) List(kind domain.Kind) ([]string, error) {
	entries, err := os.ReadDir(s.dir(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing generated yet
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir(kind), e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) dir(kind domain.Kind) string {
	return filepath.Join(s.root, string(kind))
}

// FileName is the deterministic invoice file name for a period.
func FileName(prefix string, period domain.BillingPeriod) string {
	return prefix + "_" + period.PeriodStart.Format(monthLayout) + ".html"
}
