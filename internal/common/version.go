package common

// Overridden at build time:
//
//	go build -ldflags "-X tarediiran-industries.com/departure-board/internal/common.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.3.0"
	GitCommit = "dev"
)
