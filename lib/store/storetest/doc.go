// Package storetest provides the contract test suite shared by all store
// engines. Each engine's test package calls RunStoreTests with a factory
// producing a fresh store, so the filesystem and remote engines are held to
// exactly the same observable behavior.
package storetest
