// Package config reads the process-wide configuration from the environment.
//
// Configuration comes from environment variables prefixed with KVMIRROR_,
// optionally seeded from .env / .env.local files. The presence of
// KVMIRROR_LOCAL_STORAGE_DIR switches the module into local filesystem
// mode; without it, stores resolve against the remote record service and
// KVMIRROR_TOKEN becomes mandatory.
package config
