package main

import (
	"github.com/MeKo-Tech/papertexture/internal/cmd"
)

func main() {
	cmd.Execute()
}
