package main

import (
	"os"

	"github.com/chitchat/emojikit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
