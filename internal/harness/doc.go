// Package harness runs reporter scenarios end to end.
//
// A scenario is a YAML file naming a host bundle (CUE), the patches the
// extension layer registers, the lookups it records, and what the run is
// expected to report. Run boots a simulated host on its own scheduler loop,
// runs the reporter pipeline against it and captures the diagnostic log.
// RunWithGolden compares that log with testdata/golden/{name}.golden.
package harness
