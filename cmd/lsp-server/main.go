package main

import (
	"log"

	"github.com/orizon-lang/orizon-memdebug/internal/tools/lsp"
)

func main() {
	if err := lsp.RunStdio(); err != nil {
		log.Fatal(err)
	}
}
