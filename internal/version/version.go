package version

var version = "dev"

// String returns the build version for the current binary. The value is
// injected at build time via -ldflags.
func String() string {
	return version
}

// Format returns a display-friendly version string. For normal versions
// it ensures a "v" prefix (e.g. "0.1.0" → "v0.1.0"). Special values like
// "dev" and empty strings are returned as-is.
func Format(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}
