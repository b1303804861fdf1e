// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package toolchain

import (
	"bufio"
	"io"
	"strconv"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/platform"
	"github.com/pkg/errors"
)

// WritePCF writes pin constraints in PCF format. names maps pads to their
// identifier in the top-level module.
//
func WritePCF(w io.Writer, cs []platform.Constraint, names map[*hwsoc.Signal]string) error {
	bw := bufio.NewWriter(w)
	for _, c := range cs {
		name, ok := names[c.Pad]
		if !ok {
			return errors.Errorf("pcf: pad %s not in design", c.Pad.Name())
		}
		if c.Pad.Width() > 1 {
			name += "[" + strconv.Itoa(c.Bit) + "]"
		}
		bw.WriteString("set_io " + name + " " + c.Pin + "\n")
	}
	return errors.Wrap(bw.Flush(), "write pcf")
}
