package ads122x04

import "periph.io/x/conn/v3/physic"

// DefaultAddr is the ADS122C04's I²C address with both address pins tied to
// DGND.
const DefaultAddr uint16 = 0x40

// Gain is the gain setting of the programmable gain amplifier.
type Gain uint8

const (
	Gain1 Gain = iota
	Gain2
	Gain4
	Gain8
	Gain16
	Gain32
	Gain64
	Gain128
)

// Factor returns the gain as a plain multiplier.
func (g Gain) Factor() int {
	return 1 << g
}

func gainFromBits(b uint8) Gain {
	return Gain(b & 0x07)
}

// Mux is an input multiplexer setting, selecting the differential pair or
// single-ended input to convert. The monitor settings measure the reference
// or the analog supply at a fixed 1/4 ratio, and MuxShorted shorts both
// inputs to mid-supply for offset calibration.
type Mux uint8

const (
	MuxAIN0AIN1 Mux = iota
	MuxAIN0AIN2
	MuxAIN0AIN3
	MuxAIN1AIN0
	MuxAIN1AIN2
	MuxAIN1AIN3
	MuxAIN2AIN3
	MuxAIN3AIN2
	MuxAIN0AVSS
	MuxAIN1AVSS
	MuxAIN2AVSS
	MuxAIN3AVSS
	MuxRefMonitor
	MuxAVDDMonitor
	MuxShorted
)

func muxFromBits(b uint8) Mux {
	if m := Mux(b & 0x0F); m <= MuxShorted {
		return m
	}
	return MuxAIN0AIN1
}

// DataRate selects the conversion rate. The low bit of the code doubles as
// the turbo mode flag, so rate and modulator mode are always configured
// together.
type DataRate uint8

const (
	Rate20SPS        DataRate = 0x0
	Rate40SPSTurbo   DataRate = 0x1
	Rate45SPS        DataRate = 0x2
	Rate90SPSTurbo   DataRate = 0x3
	Rate90SPS        DataRate = 0x4
	Rate180SPSTurbo  DataRate = 0x5
	Rate175SPS       DataRate = 0x6
	Rate350SPSTurbo  DataRate = 0x7
	Rate330SPS       DataRate = 0x8
	Rate660SPSTurbo  DataRate = 0x9
	Rate600SPS       DataRate = 0xA
	Rate1200SPSTurbo DataRate = 0xB
	Rate1000SPS      DataRate = 0xC
	Rate2000SPSTurbo DataRate = 0xD
)

// Turbo reports whether the rate runs the modulator in turbo mode.
func (r DataRate) Turbo() bool {
	return r&0x1 != 0
}

// SamplesPerSecond returns the nominal conversion rate.
func (r DataRate) SamplesPerSecond() physic.Frequency {
	if int(r) >= len(dataRates) {
		return 0
	}
	return dataRates[r]
}

var dataRates = [...]physic.Frequency{
	20 * physic.Hertz,
	40 * physic.Hertz,
	45 * physic.Hertz,
	90 * physic.Hertz,
	90 * physic.Hertz,
	180 * physic.Hertz,
	175 * physic.Hertz,
	350 * physic.Hertz,
	330 * physic.Hertz,
	660 * physic.Hertz,
	600 * physic.Hertz,
	1200 * physic.Hertz,
	1000 * physic.Hertz,
	2000 * physic.Hertz,
}

func rateFromBits(b uint8) DataRate {
	if r := DataRate(b & 0x0F); r <= Rate2000SPSTurbo {
		return r
	}
	return Rate20SPS
}

// ConversionMode selects between one conversion per start command and
// free-running conversions.
type ConversionMode uint8

const (
	SingleShot ConversionMode = 0
	Continuous ConversionMode = 1
)

func convModeFromBits(b uint8) ConversionMode {
	if b&0x1 == 0 {
		return SingleShot
	}
	return Continuous
}

// CurrentLevel is the magnitude of the two excitation current sources
// (IDACs).
type CurrentLevel uint8

const (
	CurrentOff CurrentLevel = iota
	Current10uA
	Current50uA
	Current100uA
	Current250uA
	Current500uA
	Current1000uA
	Current1500uA
)

// Current returns the excitation current the level selects.
func (c CurrentLevel) Current() physic.ElectricCurrent {
	if int(c) >= len(idacCurrents) {
		return 0
	}
	return idacCurrents[c]
}

var idacCurrents = [...]physic.ElectricCurrent{
	0,
	10 * physic.MicroAmpere,
	50 * physic.MicroAmpere,
	100 * physic.MicroAmpere,
	250 * physic.MicroAmpere,
	500 * physic.MicroAmpere,
	1000 * physic.MicroAmpere,
	1500 * physic.MicroAmpere,
}

func currentLevelFromBits(b uint8) CurrentLevel {
	return CurrentLevel(b & 0x07)
}

// CurrentRoute connects an excitation current source to an analog input or
// reference pin.
type CurrentRoute uint8

const (
	RouteOff CurrentRoute = iota
	RouteAIN0
	RouteAIN1
	RouteAIN2
	RouteAIN3
	RouteREFP
	RouteREFN
)

func currentRouteFromBits(b uint8) CurrentRoute {
	if r := CurrentRoute(b & 0x07); r <= RouteREFN {
		return r
	}
	return RouteOff
}

// CRCMode selects the integrity check appended to conversion data: none, an
// inverted copy of the data word, or a CRC-16.
type CRCMode uint8

const (
	CRCDisabled CRCMode = 0
	CRCInverted CRCMode = 1
	CRC16       CRCMode = 2
)

func crcModeFromBits(b uint8) CRCMode {
	if c := CRCMode(b & 0x03); c <= CRC16 {
		return c
	}
	return CRCDisabled
}

// VRef selects the reference voltage used for conversions. External and
// analog supply references carry the reference's actual voltage so readings
// can be scaled host-side; the chip itself never reports it.
type VRef struct {
	code    uint8
	voltage float32
}

const (
	vrefCodeInternal     uint8 = 0x0
	vrefCodeExternal     uint8 = 0x1
	vrefCodeAnalogSupply uint8 = 0x2
)

const internalRefVolts = 2.048

// VRefInternal returns the internal 2.048 V reference.
func VRefInternal() VRef {
	return VRef{code: vrefCodeInternal}
}

// VRefExternal returns the external reference across REFP and REFN, with its
// voltage in volts.
func VRefExternal(voltage float32) VRef {
	return VRef{code: vrefCodeExternal, voltage: voltage}
}

// VRefAnalogSupply returns the analog supply rails used as reference, with
// the supply voltage in volts.
func VRefAnalogSupply(voltage float32) VRef {
	return VRef{code: vrefCodeAnalogSupply, voltage: voltage}
}

// Voltage returns the reference voltage in volts.
func (v VRef) Voltage() float32 {
	if v.code == vrefCodeInternal {
		return internalRefVolts
	}
	return v.voltage
}

// vrefFromBits decodes a reference selection, attaching the voltage the
// caller holds for it. Reserved codes select the internal reference.
func vrefFromBits(b uint8, voltage float32) VRef {
	switch b & 0x03 {
	case vrefCodeExternal:
		return VRef{code: vrefCodeExternal, voltage: voltage}
	case vrefCodeAnalogSupply:
		return VRef{code: vrefCodeAnalogSupply, voltage: voltage}
	default:
		return VRefInternal()
	}
}

// Command opcodes. RReg and WReg carry the register address in their low
// nibble, positioned per transport variant.
const (
	cmdReset     uint8 = 0x06
	cmdStartSync uint8 = 0x08
	cmdPowerDown uint8 = 0x02
	cmdRData     uint8 = 0x10
	cmdRReg      uint8 = 0x20
	cmdWReg      uint8 = 0x40
)

// Configuration register addresses. Registers are always written whole:
//
//	0x00: MUX[7:4] GAIN[3:1] PGA_BYPASS[0]
//	0x01: DR[7:5] MODE[4] CM[3] VREF[2:1] TS[0]
//	0x02: DRDY[7] DCNT[6] CRC[5:4] BCS[3] IDAC[2:0]
//	0x03: I1MUX[7:5] I2MUX[4:2]
const (
	config0Reg uint8 = iota
	config1Reg
	config2Reg
	config3Reg
)
