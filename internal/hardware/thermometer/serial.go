package thermometer

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeThermometer, "serial", newSerial)
}

const defaultSerialBaud = 9600

// Serial reads a sensor that answers a single-character read request
// with one temperature line, e.g. "23.12\r\n".
type Serial struct {
	mu     sync.Mutex
	port   serial.Port
	reader *bufio.Reader
}

func newSerial(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	device, err := desc.StringParam("device")
	if err != nil {
		return nil, err
	}

	baud, err := desc.FloatParamDefault("baudrate", defaultSerialBaud)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(device, &serial.Mode{BaudRate: int(baud)})
	if err != nil {
		return nil, fmt.Errorf("opening serial thermometer %s: %w", device, err)
	}

	return &Serial{
		port:   port,
		reader: bufio.NewReader(port),
	}, nil
}

// Temperature requests and parses one reading.
func (s *Serial) Temperature() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.port.Write([]byte("R\n")); err != nil {
		return 0, fmt.Errorf("requesting temperature: %w", err)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("reading temperature: %w", err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing temperature %q: %w", strings.TrimSpace(line), err)
	}

	return value, nil
}

// Close releases the serial port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
