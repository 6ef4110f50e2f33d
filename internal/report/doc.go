// Package report turns a firmware analysis into something a person can read:
// a verdict, a standalone HTML page, or a JSON/YAML document.
//
// # Formats
//
//   - html: dark-themed single-file report with the vector table, bootloader
//     offset table, decoded dictionary and "make menuconfig" recommendations
//   - json, yaml: the Document type, for scripts and regression tests
//
// # Output Naming
//
// Reports are written next to the input as <name>_analysis.<format>, where a
// trailing .bin is replaced. An explicit output path is only used when a
// single file is analysed.
package report
