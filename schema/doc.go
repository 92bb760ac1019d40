// Package schema fetches and parses topic schemas from a Confluent-style
// schema registry, and canonicalises the unit strings those schemas carry.
//
// # Purpose
//
// Every topic in the database has an Avro value schema registered under
// the subject "{topic}-value". The schema lists each field's name,
// description, and physical units, and marks array fields that are stored
// as numbered packed columns. This package exposes that metadata so
// callers can discover fields and interpret their values without guessing.
//
// # Usage
//
//	reg := schema.NewClient("https://summit-lsp.lsst.codes/schema-registry")
//	s, err := reg.TopicSchema(ctx, "lsst.sal.MTM1M3.accelerometerData")
//	if err != nil { ... }
//	for _, f := range s.Fields {
//	    fmt.Println(f.Name, f.Unit)
//	}
//
// # Thread Safety
//
// Client is safe for concurrent use. Parsed schemas are cached per
// subject for the lifetime of the client.
//
// # Error Handling
//
// Transport and status failures wrap ErrRegistry. Malformed registry
// payloads wrap ErrBadSchema. Unit strings the alias table does not
// recognise wrap ErrUnknownUnit with the offending atom named.
package schema
