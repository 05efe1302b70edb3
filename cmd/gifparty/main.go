package main

import (
	"github.com/bornholm/gifparty/internal/command"
	"github.com/bornholm/gifparty/internal/command/search"
	"github.com/bornholm/gifparty/internal/command/serve"
)

var version = "dev"

func main() {
	command.Main(
		"gifparty",
		version,
		"Search Giphy and throw a GIF party",
		serve.Serve(),
		search.Search(),
	)
}
