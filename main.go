package main

import (
	"log"

	"github.com/nroussel/airdispatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
