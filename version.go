package teamtl

// Version information for teamtl.
// Override at build time with ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/teamtl.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "teamtl"

	// Description is a short description of the application.
	Description = "Team history translation service with content-validated caching"

	// Version is the semantic version of the application.
	Version = "0.1.0"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit, when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for outbound HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
