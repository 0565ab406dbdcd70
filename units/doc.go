// Package units provides the built-in status-line units: time, CPU,
// memory, disk, network, battery, and wifi probes.
//
// Each unit implements [ninebar.Unit]; most also implement
// [ninebar.ClickHandler] to toggle between display modes. System data comes
// from gopsutil where it covers the probe, and from the kernel's sysfs
// interfaces where it does not (battery uevent, thermal zones, wireless
// link quality).
//
// Units follow the Readings key conventions of the core package: typed key
// prefixes and b_err_ flags for expected absence-of-data conditions. The
// display-mode toggles flipped by click handlers are exported into the
// readings, keeping every Format a pure function of its input.
package units
