// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yeetrun/optparse/pkg/optparse"
)

func main() {
	p := optparse.New("cp", "Copy a file").
		AddOption('h', "help", optparse.Optional, "", "Show this help").
		AddOption('f', "force", optparse.Optional, "false", "Overwrite the target").
		AddValueOption('m', "mode", optparse.Optional, "0644", "Permissions of the target").
		AddPositional("source", optparse.Required, "", "File to copy").
		AddPositional("target", optparse.Optional, ".", "Destination")

	res, err := p.Parse(os.Args[1:]...)
	var helpErr *optparse.HelpError
	switch {
	case errors.As(err, &helpErr):
		fmt.Print(helpErr.Help)
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		var missing *optparse.MissingOptionsError
		if errors.As(err, &missing) {
			fmt.Fprint(os.Stderr, missing.Help)
		}
		os.Exit(2)
	}
	if res.IsFilled("help") {
		fmt.Print(p.Help())
		return
	}
	src, _ := res.Value("source")
	fmt.Printf("copy %s -> %s (mode %s, force %t)\n", src, res.EffectiveValue("target"), res.EffectiveValue("mode"), res.IsFilled("force"))
}
