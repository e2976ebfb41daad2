// Package main starts the application.
package main

import "github.com/yeisme/mediavault/pkg/cmd"

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
