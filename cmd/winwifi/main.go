package main

import (
	"github.com/dogeorg/winwifi/cmd/winwifi/cmd"
)

func main() {
	cmd.Execute()
}
