// Package main provides the entry point for rv64front.
// rv64front translates RISC-V 64 guest code into a VEX-style IR.
//
// For the full CLI, use: go run ./cmd/rv64front
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv64front - RISC-V 64 instruction front end")
	fmt.Println("")
	fmt.Println("Usage: rv64front <command> [flags]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  decode     Decode instruction words one at a time")
	fmt.Println("  translate  Translate one block")
	fmt.Println("  run        Run a statically linked RISC-V 64 program")
	fmt.Println("  repl       Interactively translate instruction words")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv64front' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv64front' instead.")
	}
}
