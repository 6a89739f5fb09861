// SPDX-License-Identifier: MIT
package cmd

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	applog "micfeatures/internal/log"
)

// WatchDeviceSwitches reads device IDs, one per line, from r and calls
// switchDevice for each until r is exhausted. Blank lines are ignored and
// anything that is not an integer is reported and skipped.
func WatchDeviceSwitches(r io.Reader, switchDevice func(id int) error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := strconv.Atoi(line)
		if err != nil {
			applog.Warnf("Main: %q is not a device ID", line)
			continue
		}
		if err := switchDevice(id); err != nil {
			applog.Errorf("Main: Switching to device %d failed: %v", id, err)
		}
	}
}
