package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ativbrasil/arsenal/internal/cert"
	"github.com/ativbrasil/arsenal/internal/storage"
)

// FSStore is what the issuance workflow archives PDFs into.
var _ cert.Archive = (*storage.FSStore)(nil)

func TestFSStorePut(t *testing.T) {
	base := t.TempDir()
	st, err := storage.NewFSStore(base)
	if err != nil {
		t.Fatal(err)
	}
	key, err := st.Put("Certificado_ATIV_ATIV-AB12CD34.pdf", strings.NewReader("%PDF-fake"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(base, key))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "%PDF-fake" {
		t.Errorf("content = %q", b)
	}
}

func TestFSStorePutEmptyKey(t *testing.T) {
	st, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Put("", strings.NewReader("x")); err == nil {
		t.Fatal("empty key accepted")
	}
}
