// Package errors provides the typed error taxonomy shared by all store
// engines and the record service client.
//
// Every error produced by this module is an *Error carrying exactly one
// classification Code (parameter, encoding, configuration, io, service).
// Callers inspect errors with the Is* helpers or CodeOf instead of matching
// on message text:
//
//	if err := kv.SetValue(ctx, key, value, nil); errors.IsParameter(err) {
//		// the caller passed a bad key or contradictory options
//	}
//
// Errors wrap their underlying cause where one exists, so stdlib errors.Is
// and errors.As keep working across the taxonomy.
package errors
