package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the Klipper documentation at https://www.klipper3d.org/

// Bootloaders covers bootloader offsets per board and how to flash them.
const Bootloaders = "https://www.klipper3d.org/Bootloaders.html"

// Installation is the guide for building and flashing the micro-controller code.
const Installation = "https://www.klipper3d.org/Installation.html"

// Protocol describes the data dictionary embedded in every build.
const Protocol = "https://www.klipper3d.org/Protocol.html"

// FAQ answers common flashing and connection problems.
const FAQ = "https://www.klipper3d.org/FAQ.html"
