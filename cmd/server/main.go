package main

import (
	"fmt"
	"os"

	"github.com/rohits-web03/webfile/cmd/server/cli"
)

var (
	version = "0.1.0-dev"
	commit  = "main"
)

// @title Webfile API
// @version 1.0
// @description Direct uploads to object storage or to signed local endpoints.
// @BasePath /
func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
