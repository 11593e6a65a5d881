package main

import (
	"os"

	"tarediiran-industries.com/departure-board/internal/board"
)

func main() {
	os.Exit(board.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
