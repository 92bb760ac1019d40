package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCredentialsPath is the conventional location of the notebook
// credentials file.
const DefaultCredentialsPath = "~/.lsst/notebook_auth.yaml"

// FileProvider reads deployment credentials from a local YAML file.
//
// The file maps deployment aliases to credential blocks:
//
//	usdf_efd:
//	  host: efd.example.org
//	  username: reader
//	  password: hunter2
//
// Because it stores secrets, the file must be mode 0600; any other mode is
// rejected.
type FileProvider struct {
	path  string
	creds map[string]Credentials
}

// NewFileProvider loads credentials from disk. The path is resolved in
// order: the file named by the environment variable envVar when set, then
// path, then DefaultCredentialsPath. A leading "~/" expands to the user's
// home directory.
func NewFileProvider(path, envVar string) (*FileProvider, error) {
	secretPath := path
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			secretPath = v
		}
	}
	if secretPath == "" {
		secretPath = DefaultCredentialsPath
	}
	secretPath, err := expandHome(secretPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(secretPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCredentials, secretPath)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		return nil, fmt.Errorf("%w: %s has %#o, must be 0600",
			ErrBadPermissions, secretPath, mode)
	}

	data, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("auth: reading %s: %w", secretPath, err)
	}
	creds := map[string]Credentials{}
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("auth: parsing %s: %w", secretPath, err)
	}

	return &FileProvider{path: secretPath, creds: creds}, nil
}

// ListAuth returns the deployment aliases in the file, sorted.
func (p *FileProvider) ListAuth() []string {
	names := make([]string, 0, len(p.creds))
	for name := range p.creds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAuth returns the credentials stored under alias.
func (p *FileProvider) GetAuth(alias string) (Credentials, error) {
	creds, ok := p.creds[alias]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return creds, nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("auth: resolving home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
