// Command mro-gen generates schema declarations and typed accessors
// for mro-tagged structs in a Go source file.
package main

import (
	"flag"
	"log"

	"github.com/brushtech/mro/gen"
)

func main() {
	src := flag.String("src", "", "Go source file with mro-tagged structs")
	out := flag.String("out", "", "output file (default <src>_mro.go)")
	flag.Parse()

	if *src == "" {
		log.Fatal("mro-gen: -src is required")
	}

	if err := gen.Gen(*src, *out); err != nil {
		log.Fatal(err)
	}
}
