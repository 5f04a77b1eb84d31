// gitclawd analyzes public GitHub repositories and reports health metrics,
// an authenticity score and a short AI-written verdict.
//
// Usage:
//
//	gitclawd bot
//	gitclawd analyze https://github.com/owner/repo --output json
//	gitclawd serve --addr :8080
package main

import (
	"github.com/naka-gawa/gitclawd/cmd"
)

// Version is the current version of gitclawd.
// It can be overridden at build time using:
//
//	go build -ldflags="-X main.Version=v1.0.0"
var Version = "dev"

func main() {
	cmd.Version = Version
	cmd.Execute()
}
