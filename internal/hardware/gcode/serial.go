package gcode

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/opencell/reactor-core/internal/hardware"
)

func init() {
	hardware.Register(hardware.TypeGcode, "serial", newSerial)
}

const (
	defaultBaud = 115200

	// grbl acknowledges each command line with "ok". Transient serial
	// glitches get a bounded number of retries before the command
	// fails.
	ackRetries = 3
)

// SerialPort is the subset of the serial port used here. Narrowed for
// tests.
type SerialPort interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	Close() error
}

// Serial drives a grbl board over a serial port. Commands are written
// one line at a time and each must be acknowledged with "ok" before
// the next is sent.
//
// Required params: device. Optional: baudrate.
type Serial struct {
	mu     sync.Mutex
	port   SerialPort
	reader *bufio.Reader
}

func newSerial(desc hardware.DeviceDescriptor, deps map[string]hardware.Device) (hardware.Device, error) {
	device, err := desc.StringParam("device")
	if err != nil {
		return nil, err
	}

	baud, err := desc.FloatParamDefault("baudrate", defaultBaud)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(device, &serial.Mode{BaudRate: int(baud)})
	if err != nil {
		return nil, fmt.Errorf("opening grbl port %s: %w", device, err)
	}

	return newSerialWithPort(port), nil
}

// newSerialWithPort wraps an already-open port. Split out so tests can
// inject a fake port.
func newSerialWithPort(port SerialPort) *Serial {
	return &Serial{
		port:   port,
		reader: bufio.NewReader(port),
	}
}

// WriteGcode sends one command line and waits for the board to
// acknowledge it. grbl replies "ok" on success and "error:N" on a
// rejected command.
func (s *Serial) WriteGcode(command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < ackRetries; attempt++ {
		if _, err := s.port.Write([]byte(command + "\n")); err != nil {
			lastErr = fmt.Errorf("writing %q: %w", command, err)
			continue
		}

		line, err := s.reader.ReadString('\n')
		if err != nil {
			lastErr = fmt.Errorf("reading ack for %q: %w", command, err)
			continue
		}

		reply := strings.TrimSpace(line)
		if reply == "ok" {
			return nil
		}
		// A definitive rejection is not worth retrying.
		return fmt.Errorf("grbl rejected %q: %s", command, reply)
	}

	return lastErr
}

// Close releases the serial port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
