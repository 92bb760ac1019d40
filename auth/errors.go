package auth

import "errors"

// Sentinel errors for credential resolution.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, auth.ErrUnknownAlias) {
//	    // Handle an unrecognised deployment name
//	}
var (
	// ErrNoCredentials indicates no credentials file exists at the
	// resolved path.
	ErrNoCredentials = errors.New("auth: no credentials file")

	// ErrBadPermissions indicates the credentials file is readable by
	// others. The file must be mode 0600.
	ErrBadPermissions = errors.New("auth: credentials file has incorrect permissions")

	// ErrUnknownAlias indicates the requested deployment name has no
	// stored credentials.
	ErrUnknownAlias = errors.New("auth: unknown deployment alias")

	// ErrService indicates the credential service request failed.
	ErrService = errors.New("auth: credential service request failed")
)
