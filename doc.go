/*
Package hwsoc provides the building blocks used to describe a System-on-Chip
for an FPGA target: signals, clock domains, modules and vendor macro
instances.

A design is built by composing modules. Each signal in a design is driven from
exactly one place and the wiring of a complete design can be verified with
Check before it is handed to an elaborator (see the verilog package) or
evaluated with a Circuit.

Subpackages provide a platform abstraction, reusable cores (LED chaser, GPIO
input), a generic SoC core, a clock/reset generator and a build orchestrator
driving the external toolchain.

*/
package hwsoc
