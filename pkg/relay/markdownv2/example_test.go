// Copyright 2024-2026 Aiku AI

package markdownv2_test

import (
	"fmt"

	"github.com/aiku/telegram-relay/pkg/relay/markdownv2"
)

func ExampleFormat() {
	fmt.Println(markdownv2.Format("## Release 1.2 is out!"))
	// Output: *Release 1\.2 is out\!*
}

func ExampleEscape() {
	fmt.Println(markdownv2.Escape("v1.2 (stable)"))
	// Output: v1\.2 \(stable\)
}
