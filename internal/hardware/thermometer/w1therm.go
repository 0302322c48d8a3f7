package thermometer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeThermometer, "w1_therm", newW1Therm)
}

// W1Therm reads a DS18B20-style 1-Wire sensor through the kernel's
// w1_therm sysfs interface. The driver exposes one file per sensor:
//
//	/sys/bus/w1/devices/28-0316a2799e42/w1_slave
//
// whose second line ends with "t=<millidegrees>".
type W1Therm struct {
	path string
}

func newW1Therm(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	address, err := desc.StringParam("address")
	if err != nil {
		return nil, err
	}

	t := &W1Therm{
		path: fmt.Sprintf("/sys/bus/w1/devices/%s/w1_slave", address),
	}

	// Fail at build time, not on first read, if the sensor is absent.
	if _, err := os.Stat(t.path); err != nil {
		return nil, fmt.Errorf("1-wire sensor %s: %w", address, err)
	}

	return t, nil
}

// Temperature reads and parses the sensor's sysfs file.
func (t *W1Therm) Temperature() (float64, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return 0, fmt.Errorf("reading 1-wire sensor: %w", err)
	}
	return parseW1Slave(string(data))
}

// parseW1Slave extracts the temperature from w1_slave file content.
// The file looks like:
//
//	72 01 4b 46 7f ff 0e 10 57 : crc=57 YES
//	72 01 4b 46 7f ff 0e 10 57 t=23125
func parseW1Slave(content string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return 0, fmt.Errorf("malformed w1_slave content")
	}

	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, fmt.Errorf("1-wire CRC check failed")
	}

	idx := strings.LastIndex(lines[1], "t=")
	if idx < 0 {
		return 0, fmt.Errorf("w1_slave missing t= field")
	}

	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][idx+2:]))
	if err != nil {
		return 0, fmt.Errorf("parsing w1_slave temperature: %w", err)
	}

	return float64(milli) / 1000.0, nil
}
