package auth

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testCredsYAML = `summit_efd:
  host: summit.example.org
  schema_registry_url: https://summit.example.org/schema-registry
  port: "443"
  username: efdreader
  password: hunter2
  path: /influxdb
usdf_efd:
  host: usdf.example.org
  port: "443"
  username: efdreader
  password: hunter2
`

func writeCreds(t *testing.T, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notebook_auth.yaml")
	if err := os.WriteFile(path, []byte(testCredsYAML), perm); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	return path
}

func TestFileProviderGetAuth(t *testing.T) {
	p, err := NewFileProvider(writeCreds(t, 0o600), "")
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}

	creds, err := p.GetAuth("summit_efd")
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	if creds.Host != "summit.example.org" {
		t.Errorf("Host = %q, want summit.example.org", creds.Host)
	}
	if creds.Port != "443" || creds.Path != "/influxdb" {
		t.Errorf("Port/Path = %q/%q", creds.Port, creds.Path)
	}
	if creds.SchemaRegistryURL != "https://summit.example.org/schema-registry" {
		t.Errorf("SchemaRegistryURL = %q", creds.SchemaRegistryURL)
	}
}

func TestFileProviderListAuth(t *testing.T) {
	p, err := NewFileProvider(writeCreds(t, 0o600), "")
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}

	names := p.ListAuth()
	if want := []string{"summit_efd", "usdf_efd"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ListAuth() = %v, want %v", names, want)
	}
}

func TestFileProviderUnknownAlias(t *testing.T) {
	p, err := NewFileProvider(writeCreds(t, 0o600), "")
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}
	if _, err := p.GetAuth("nope"); !errors.Is(err, ErrUnknownAlias) {
		t.Errorf("error = %v, want ErrUnknownAlias", err)
	}
}

func TestFileProviderRejectsLoosePermissions(t *testing.T) {
	_, err := NewFileProvider(writeCreds(t, 0o644), "")
	if !errors.Is(err, ErrBadPermissions) {
		t.Errorf("error = %v, want ErrBadPermissions", err)
	}
}

func TestFileProviderMissingFile(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "absent.yaml"), "")
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("error = %v, want ErrNoCredentials", err)
	}
}

func TestFileProviderEnvOverride(t *testing.T) {
	path := writeCreds(t, 0o600)
	t.Setenv("EFD_CREDS_FILE", path)

	p, err := NewFileProvider("", "EFD_CREDS_FILE")
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}
	if _, err := p.GetAuth("usdf_efd"); err != nil {
		t.Errorf("GetAuth() error = %v", err)
	}
}
