package version

// Version is the current wikigate release. Overridden at build time via
// -ldflags "-X wikigate/pkg/version.Version=...".
var Version = "0.3.0"
