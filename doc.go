// Package linkgen generates GNU ld linker scripts for a multi-core SoC made
// of a fabric controller and a cluster of processing elements.
//
// From a hierarchical hardware/software configuration it produces two
// artifacts: a layout script (OUTPUT_ARCH, ENTRY, the MEMORY table and one
// SECTIONS stanza per output section) and a properties file of symbolic
// constants read by the boot loader and runtime.
//
// # Architecture Overview
//
//	linkgen/             Generate and atomic WriteFiles
//	├── builder/         Declares regions, sections and variables per platform
//	├── script/          Region table, global section order, rendering
//	├── layout/          Regions, sections and address resolution
//	├── config/          Path-addressed configuration and the JSON tree
//	├── errors/          Structured error types
//	└── cmd/linkgen/     Command line tool
//
// # Quick Start
//
//	cfg, err := config.LoadFile("platform.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := linkgen.WriteFiles(cfg, "link.ld", "config.ld"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Address Resolution
//
// Sections are chained in declaration order within their region. A section
// starts where its predecessor ends, expressed symbolically as
// ADDR(.prev) + SIZEOF(.prev), unless an explicit address is configured or
// the chain crosses into a different address window, in which case the
// section is anchored at the origin of its window. Load addresses are derived
// the same way in the base window whenever they differ from execution
// addresses.
//
// Generation is deterministic: identical configurations produce identical
// artifacts.
package linkgen
