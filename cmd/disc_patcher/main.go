package main

import (
	"log"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Printf("[main] %v", err)
		os.Exit(1)
	}
}
