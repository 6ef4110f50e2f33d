// Package firmware analyses raw ARM Cortex-M flash images built by Klipper.
//
// The analysis works on an in-memory copy of the image and never executes or
// disassembles it. It recovers three facts the image does not declare:
//
//   - whether the image starts with a plausible Cortex-M vector table
//   - the flash address the image was linked at, and so which bootloader
//     offset it was built for
//   - the zlib-compressed JSON data dictionary Klipper embeds, which names the
//     MCU, clock frequency and pin assignments
//
// # Link Base Resolution
//
// The link base is inferred by cross-referencing: for every known bootloader
// offset the resolver computes where the dictionary would sit in flash and
// searches the image for that address as a little-endian literal. Firmware
// always holds such a pointer in its identify handler, so only the true link
// base produces a hit. When there is no dictionary, or no hit, the resolver
// falls back to the vector table position and finally to the reset vector.
// LinkBase.Method and LinkBase.Confidence record which path was taken.
//
// # Usage
//
//	data, err := os.ReadFile("klipper.bin")
//	if err != nil {
//	    return err
//	}
//	a, err := firmware.Analyze(data)
//	if err != nil {
//	    return err // image shorter than 8 bytes
//	}
//	if off, ok := a.BootloaderOffset(); ok {
//	    fmt.Printf("bootloader offset 0x%04X\n", off)
//	}
//
// All functions are pure over the input slice and safe for concurrent use.
package firmware
