package main

import (
	"github.com/Laisky/image-search-client/cmd"
)

func main() {
	cmd.Execute()
}
