// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command quickfeather builds the SoC of the QuickLogic QuickFeather board.
//
package main

import "github.com/db47h/hwsoc/internal/cli"

func main() {
	cli.Execute()
}
