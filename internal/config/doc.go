// Package config holds wordspider's run configuration and the optional
// per-site configuration file.
//
// A Config is built from defaults by NewConfig, overwritten by CLI flags,
// and checked once by Validate before any request is made. The site file
// (.wordspider) adds per-domain headers, cookies, delays, path patterns
// and extra stop words on top of it.
package config
