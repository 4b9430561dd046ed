package ads122x04

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

var (
	// ErrInvalidValue is returned when a setting or register address is out
	// of range for the converter. It is detected host-side, before any bus
	// traffic.
	ErrInvalidValue = errors.New("invalid value")

	// ErrIO is returned when an exchange with the converter fails. The
	// underlying bus or port error is wrapped.
	ErrIO = errors.New("communication error")
)

// Dev is a handle to an ADS122C04 or ADS122U04 analog-to-digital converter.
//
// The driver keeps a host-side mirror of the four configuration registers
// and recomputes the whole register byte from it on every setting change;
// device registers are never read-modify-written. Dev is not safe for
// concurrent use.
type Dev struct {
	t    transport
	name string

	// Configuration mirror. The zero values match the power-on register
	// defaults.
	vref      VRef
	gain      Gain
	mux       Mux
	idac      CurrentLevel
	route1    CurrentRoute
	route2    CurrentRoute
	rate      DataRate
	pgaBypass bool
	convMode  ConversionMode
	tempSense bool
	counter   bool
	crc       CRCMode
	burnout   bool
}

// NewI2C returns a driver for an ADS122C04 on the given bus.
//
// Opening the device generates no bus traffic; the configuration mirror
// starts at the power-on register defaults. Use Reset to force the device
// itself back to them.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	if addr > 0x7F {
		return nil, fmt.Errorf("%w: i2c address %#02x", ErrInvalidValue, addr)
	}
	return newDev(&i2cTransport{c: &i2c.Dev{Bus: b, Addr: addr}}, "ads122c04"), nil
}

// NewUART returns a driver for an ADS122U04 attached to the given serial
// port. The converter expects 8 data bits, no parity and 1 stop bit.
func NewUART(p Port) (*Dev, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil port", ErrInvalidValue)
	}
	return newDev(&uartTransport{p: p}, "ads122u04"), nil
}

func newDev(t transport, name string) *Dev {
	return &Dev{
		t:    t,
		name: name,
		vref: VRefInternal(),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}", d.name, d.t)
}

// Halt powers down the converter.
//
// Implements conn.Resource.
func (d *Dev) Halt() error {
	return d.PowerDown()
}

// SetPGABypass disconnects the programmable gain amplifier, routing the
// inputs directly to the modulator. The chip only honors this for gains of
// 1, 2 and 4.
func (d *Dev) SetPGABypass(bypass bool) error {
	d.pgaBypass = bypass
	return d.updateRegister(config0Reg)
}

// PGABypass reads back whether the PGA is bypassed.
func (d *Dev) PGABypass() (bool, error) {
	val, err := d.ReadRegister(config0Reg)
	if err != nil {
		return false, err
	}
	return val&0x01 != 0, nil
}

// SetGain sets the PGA gain.
func (d *Dev) SetGain(g Gain) error {
	if g > Gain128 {
		return fmt.Errorf("%w: gain %d", ErrInvalidValue, g)
	}
	d.gain = g
	return d.updateRegister(config0Reg)
}

// Gain reads back the PGA gain.
func (d *Dev) Gain() (Gain, error) {
	val, err := d.ReadRegister(config0Reg)
	if err != nil {
		return 0, err
	}
	return gainFromBits(val >> 1), nil
}

// SetInputMux selects the input pair routed to the ADC.
func (d *Dev) SetInputMux(m Mux) error {
	if m > MuxShorted {
		return fmt.Errorf("%w: input mux %d", ErrInvalidValue, m)
	}
	d.mux = m
	return d.updateRegister(config0Reg)
}

// InputMux reads back the input multiplexer setting.
func (d *Dev) InputMux() (Mux, error) {
	val, err := d.ReadRegister(config0Reg)
	if err != nil {
		return 0, err
	}
	return muxFromBits(val >> 4), nil
}

// SetTemperatureSensorMode routes the internal temperature sensor to the
// ADC instead of the input multiplexer.
func (d *Dev) SetTemperatureSensorMode(on bool) error {
	d.tempSense = on
	return d.updateRegister(config1Reg)
}

// TemperatureSensorMode reads back whether the internal temperature sensor
// is selected.
func (d *Dev) TemperatureSensorMode() (bool, error) {
	val, err := d.ReadRegister(config1Reg)
	if err != nil {
		return false, err
	}
	return val&0x01 != 0, nil
}

// SetVRef selects the conversion reference. The voltage carried by external
// and analog supply references is only used host-side, to scale readings.
func (d *Dev) SetVRef(v VRef) error {
	d.vref = v
	return d.updateRegister(config1Reg)
}

// VRef reads back the reference selection. The reference voltage attached
// to it is the one the mirror holds, the chip does not report it.
func (d *Dev) VRef() (VRef, error) {
	val, err := d.ReadRegister(config1Reg)
	if err != nil {
		return VRef{}, err
	}
	return vrefFromBits(val>>1, d.vref.Voltage()), nil
}

// SetConversionMode switches between single-shot and continuous conversion.
func (d *Dev) SetConversionMode(m ConversionMode) error {
	if m > Continuous {
		return fmt.Errorf("%w: conversion mode %d", ErrInvalidValue, m)
	}
	d.convMode = m
	return d.updateRegister(config1Reg)
}

// ConversionMode reads back the conversion mode.
func (d *Dev) ConversionMode() (ConversionMode, error) {
	val, err := d.ReadRegister(config1Reg)
	if err != nil {
		return 0, err
	}
	return convModeFromBits(val >> 3), nil
}

// TurboMode reads back whether the modulator runs at the doubled turbo
// rate. The flag is set and cleared through SetDataRate.
func (d *Dev) TurboMode() (bool, error) {
	val, err := d.ReadRegister(config1Reg)
	if err != nil {
		return false, err
	}
	return val&(1<<4) != 0, nil
}

// SetDataRate sets the conversion rate. Turbo mode is part of the rate code
// and is written together with it.
func (d *Dev) SetDataRate(r DataRate) error {
	if r > Rate2000SPSTurbo {
		return fmt.Errorf("%w: data rate %d", ErrInvalidValue, r)
	}
	d.rate = r
	return d.updateRegister(config1Reg)
}

// DataRate reads back the conversion rate code.
func (d *Dev) DataRate() (DataRate, error) {
	val, err := d.ReadRegister(config1Reg)
	if err != nil {
		return 0, err
	}
	return rateFromBits(val >> 4), nil
}

// SetCurrentLevel sets the magnitude of both excitation current sources.
func (d *Dev) SetCurrentLevel(c CurrentLevel) error {
	if c > Current1500uA {
		return fmt.Errorf("%w: current level %d", ErrInvalidValue, c)
	}
	d.idac = c
	return d.updateRegister(config2Reg)
}

// CurrentLevel reads back the excitation current magnitude.
func (d *Dev) CurrentLevel() (CurrentLevel, error) {
	val, err := d.ReadRegister(config2Reg)
	if err != nil {
		return 0, err
	}
	return currentLevelFromBits(val), nil
}

// SetBurnoutCurrentSources enables the 10 µA sensor burn-out detection
// currents.
func (d *Dev) SetBurnoutCurrentSources(on bool) error {
	d.burnout = on
	return d.updateRegister(config2Reg)
}

// BurnoutCurrentSources reads back whether the burn-out detection currents
// are enabled.
func (d *Dev) BurnoutCurrentSources() (bool, error) {
	val, err := d.ReadRegister(config2Reg)
	if err != nil {
		return false, err
	}
	return val&(1<<3) != 0, nil
}

// SetCRC selects the integrity check appended to conversion data.
func (d *Dev) SetCRC(c CRCMode) error {
	if c > CRC16 {
		return fmt.Errorf("%w: crc mode %d", ErrInvalidValue, c)
	}
	d.crc = c
	return d.updateRegister(config2Reg)
}

// CRC reads back the integrity check mode.
func (d *Dev) CRC() (CRCMode, error) {
	val, err := d.ReadRegister(config2Reg)
	if err != nil {
		return 0, err
	}
	return crcModeFromBits(val >> 4), nil
}

// SetDataCounter prepends a conversion counter byte to the data word.
func (d *Dev) SetDataCounter(on bool) error {
	d.counter = on
	return d.updateRegister(config2Reg)
}

// DataCounter reads back whether the conversion counter is enabled.
func (d *Dev) DataCounter() (bool, error) {
	val, err := d.ReadRegister(config2Reg)
	if err != nil {
		return false, err
	}
	return val&(1<<6) != 0, nil
}

// DataReady reports whether a conversion result is waiting to be read. The
// flag clears when the result is read or replaced.
func (d *Dev) DataReady() (bool, error) {
	val, err := d.ReadRegister(config2Reg)
	if err != nil {
		return false, err
	}
	return val&(1<<7) != 0, nil
}

// SetCurrentRoute1 connects the first excitation current source to an
// analog input or reference pin.
func (d *Dev) SetCurrentRoute1(r CurrentRoute) error {
	if r > RouteREFN {
		return fmt.Errorf("%w: current route %d", ErrInvalidValue, r)
	}
	d.route1 = r
	return d.updateRegister(config3Reg)
}

// CurrentRoute1 reads back the first excitation current source's routing.
func (d *Dev) CurrentRoute1() (CurrentRoute, error) {
	val, err := d.ReadRegister(config3Reg)
	if err != nil {
		return 0, err
	}
	return currentRouteFromBits(val >> 5), nil
}

// SetCurrentRoute2 connects the second excitation current source to an
// analog input or reference pin.
func (d *Dev) SetCurrentRoute2(r CurrentRoute) error {
	if r > RouteREFN {
		return fmt.Errorf("%w: current route %d", ErrInvalidValue, r)
	}
	d.route2 = r
	return d.updateRegister(config3Reg)
}

// CurrentRoute2 reads back the second excitation current source's routing.
func (d *Dev) CurrentRoute2() (CurrentRoute, error) {
	val, err := d.ReadRegister(config3Reg)
	if err != nil {
		return 0, err
	}
	return currentRouteFromBits(val >> 2), nil
}

// RawADC returns the most recent conversion result as a signed count. The
// converter's 24-bit word is two's complement: full-scale positive is
// 0x7FFFFF, full-scale negative 0x800000.
func (d *Dev) RawADC() (int32, error) {
	raw, err := d.t.readData()
	if err != nil {
		return 0, d.wrap(err)
	}
	return signExtend24(raw), nil
}

// Voltage returns the most recent conversion result scaled to volts by the
// configured reference. ok is false when the device could not be read.
func (d *Dev) Voltage() (v float32, ok bool) {
	raw, err := d.RawADC()
	if err != nil {
		return 0, false
	}
	return d.VoltageFromRaw(raw), true
}

// VoltageFromRaw converts a signed conversion count to volts using the
// mirror's reference voltage.
func (d *Dev) VoltageFromRaw(raw int32) float32 {
	return float32(float64(d.vref.Voltage()) / (1 << 23) * float64(raw))
}

// Reset restores the device's configuration registers to their power-on
// defaults. The mirror is reset to match.
func (d *Dev) Reset() error {
	if err := d.t.writeCommand(cmdReset); err != nil {
		return d.wrap(err)
	}
	*d = Dev{t: d.t, name: d.name, vref: VRefInternal()}
	return nil
}

// Start begins a conversion. In continuous mode a single command starts the
// free-running sequence; in single-shot mode every conversion needs its own
// start.
func (d *Dev) Start() error {
	if err := d.t.writeCommand(cmdStartSync); err != nil {
		return d.wrap(err)
	}
	return nil
}

// PowerDown puts the converter in its low-power state. Register contents
// are retained; Start resumes conversions.
func (d *Dev) PowerDown() error {
	if err := d.t.writeCommand(cmdPowerDown); err != nil {
		return d.wrap(err)
	}
	return nil
}

// ReadRegister returns the live value of one of the four configuration
// registers.
func (d *Dev) ReadRegister(reg uint8) (uint8, error) {
	if reg > config3Reg {
		return 0, fmt.Errorf("%w: register address %#02x", ErrInvalidValue, reg)
	}
	val, err := d.t.readRegister(reg)
	if err != nil {
		return 0, d.wrap(err)
	}
	return val, nil
}

// updateRegister recomputes one whole configuration register from the
// mirror and writes it out.
func (d *Dev) updateRegister(reg uint8) error {
	var val uint8
	switch reg {
	case config0Reg:
		val = boolBit(d.pgaBypass) | uint8(d.gain)<<1 | uint8(d.mux)<<4
	case config1Reg:
		// The rate code carries the turbo flag in its low bit, placing DR
		// and MODE in a single write.
		val = boolBit(d.tempSense) | d.vref.code<<1 | uint8(d.convMode)<<3 | uint8(d.rate)<<4
	case config2Reg:
		val = uint8(d.idac) | boolBit(d.burnout)<<3 | uint8(d.crc)<<4 | boolBit(d.counter)<<6
	case config3Reg:
		val = uint8(d.route2)<<2 | uint8(d.route1)<<5
	default:
		return fmt.Errorf("%w: register address %#02x", ErrInvalidValue, reg)
	}
	if err := d.t.writeRegister(reg, val); err != nil {
		return d.wrap(err)
	}
	return nil
}

// signExtend24 interprets the low 24 bits of raw as two's complement.
func signExtend24(raw uint32) int32 {
	return int32(raw<<8) >> 8
}

func boolBit(on bool) uint8 {
	if on {
		return 1
	}
	return 0
}

func (d *Dev) wrap(err error) error {
	return fmt.Errorf("%s: %w: %w", d.name, ErrIO, err)
}

var _ conn.Resource = &Dev{}
