package sieve

// Version is the library version, overridable at build time with
// -ldflags "-X github.com/aretw0/sieve.Version=...".
var Version = "0.1.0"
