package ads122x04

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3"
)

// Register address position within the RReg/WReg opcode byte. The I²C
// variant has four configuration registers and uses a two-bit field at bits
// 3:2; the UART variant addresses its larger register file with a three-bit
// field at bits 3:1.
const (
	i2cAddrShift  = 2
	uartAddrShift = 1
)

// syncByte precedes every UART frame so the converter can latch on to the
// incoming baud rate.
const syncByte uint8 = 0x55

// Port is the serial link an ADS122U04 is attached to. Flush must push any
// buffered bytes onto the wire; ports whose writes are unbuffered may
// implement it as a no-op.
type Port interface {
	io.ReadWriter
	Flush() error
}

// transport moves opcode frames to and from the converter.
type transport interface {
	// writeRegister writes one whole configuration register.
	writeRegister(reg, value uint8) error
	// writeCommand sends a single-byte command without payload.
	writeCommand(cmd uint8) error
	// readRegister reads back one configuration register.
	readRegister(reg uint8) (uint8, error)
	// readData reads the 24-bit conversion result, MSB first.
	readData() (uint32, error)
}

type i2cTransport struct {
	c conn.Conn
}

func (t *i2cTransport) writeRegister(reg, value uint8) error {
	return t.c.Tx([]byte{cmdWReg | reg<<i2cAddrShift, value}, nil)
}

func (t *i2cTransport) writeCommand(cmd uint8) error {
	return t.c.Tx([]byte{cmd}, nil)
}

func (t *i2cTransport) readRegister(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := t.c.Tx([]byte{cmdRReg | reg<<i2cAddrShift}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (t *i2cTransport) readData() (uint32, error) {
	var buf [3]byte
	if err := t.c.Tx([]byte{cmdRData}, buf[:]); err != nil {
		return 0, err
	}
	return beUint24(buf[:]), nil
}

func (t *i2cTransport) String() string {
	return t.c.String()
}

type uartTransport struct {
	p Port
}

// send writes one frame and flushes it onto the wire.
func (t *uartTransport) send(frame []byte) error {
	if _, err := t.p.Write(frame); err != nil {
		return err
	}
	return t.p.Flush()
}

func (t *uartTransport) writeRegister(reg, value uint8) error {
	return t.send([]byte{syncByte, cmdWReg | reg<<uartAddrShift, value})
}

func (t *uartTransport) writeCommand(cmd uint8) error {
	return t.send([]byte{syncByte, cmd})
}

func (t *uartTransport) readRegister(reg uint8) (uint8, error) {
	if err := t.send([]byte{syncByte, cmdRReg | reg<<uartAddrShift}); err != nil {
		return 0, err
	}
	var buf [1]byte
	if _, err := io.ReadFull(t.p, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (t *uartTransport) readData() (uint32, error) {
	if err := t.send([]byte{syncByte, cmdRData}); err != nil {
		return 0, err
	}
	var buf [3]byte
	if _, err := io.ReadFull(t.p, buf[:]); err != nil {
		return 0, err
	}
	return beUint24(buf[:]), nil
}

func (t *uartTransport) String() string {
	if s, ok := t.p.(fmt.Stringer); ok {
		return s.String()
	}
	return "uart"
}

func beUint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

var _ transport = &i2cTransport{}
var _ transport = &uartTransport{}
