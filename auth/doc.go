// Package auth resolves connection credentials for EFD deployments.
//
// Two mechanisms are supported, matching how observatory notebooks have
// historically stored secrets:
//
//   - ServiceClient queries the central credential service over HTTPS for
//     the full connection tuple (host, port, path, schema registry URL,
//     username, password).
//   - FileProvider reads a local YAML credentials file, conventionally
//     ~/.lsst/notebook_auth.yaml, which must be mode 0600.
//
// # Usage
//
//	svc := auth.NewServiceClient(auth.DefaultService)
//	names, err := svc.ListAuth(ctx)
//	creds, err := svc.GetAuth(ctx, "usdf_efd")
//
// # Error Handling
//
// Unknown deployment names surface as ErrUnknownAlias; transport and
// decoding failures wrap ErrService. Credentials are never logged.
//
// # Thread Safety
//
// ServiceClient methods are safe for concurrent use. A FileProvider is
// immutable after construction.
package auth
