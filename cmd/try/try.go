package main

import (
	"fmt"
	"os"

	"context"

	"github.com/try-sh/try"
	"github.com/try-sh/try/internal/util"
)

func main() {
	os.Exit(_main())
}

func _main() int {
	if err := try.New().Run(context.Background()); err != nil {
		if util.IsIgnorableError(err) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		st, _ := util.GetExitStatus(err)
		return st
	}
	return 0
}
