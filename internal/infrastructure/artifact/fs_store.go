// Package artifact stores rendered invoice documents on the local filesystem,
// addressable by bill id, for static serving under /invoices.
package artifact

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	appbilling "github.com/paintshop/billing-api/internal/application/billing"
)

// PublicPrefix is the URL prefix the invoice directory is served under.
const PublicPrefix = "/invoices"

var _ appbilling.InvoiceStore = (*FSStore)(nil)

// FSStore writes invoice PDFs into one directory.
type FSStore struct {
	dir string
}

// NewFSStore creates the directory if missing and returns the store.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoice dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// FileName is the deterministic document name for a bill.
func FileName(billID int64) string {
	return fmt.Sprintf("invoice_%d.pdf", billID)
}

// Save writes the document and returns its public path.
func (s *FSStore) Save(billID int64, data []byte) (string, error) {
	name := FileName(billID)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write invoice: %w", err)
	}
	return path.Join(PublicPrefix, name), nil
}

// Dir returns the directory documents are written to (for static serving).
func (s *FSStore) Dir() string { return s.dir }
