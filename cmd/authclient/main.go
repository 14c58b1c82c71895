package main

import "github.com/giantswarm/authclient/internal/cli"

// version is set during build with -ldflags "-X main.version=v1.2.3"
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
