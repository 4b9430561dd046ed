package main

import (
	"flag"
	"log"
	"time"

	"github.com/mikesmitty/ads122x04"
	"github.com/tarm/serial"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// uartPort adapts a tarm serial port to the driver. Writes go straight to
// the device, so the flush the driver asks for is a no-op.
type uartPort struct {
	*serial.Port
}

func (p uartPort) Flush() error { return nil }

var gains = map[int]ads122x04.Gain{
	1:   ads122x04.Gain1,
	2:   ads122x04.Gain2,
	4:   ads122x04.Gain4,
	8:   ads122x04.Gain8,
	16:  ads122x04.Gain16,
	32:  ads122x04.Gain32,
	64:  ads122x04.Gain64,
	128: ads122x04.Gain128,
}

var rates = map[int]ads122x04.DataRate{
	20:   ads122x04.Rate20SPS,
	45:   ads122x04.Rate45SPS,
	90:   ads122x04.Rate90SPS,
	175:  ads122x04.Rate175SPS,
	330:  ads122x04.Rate330SPS,
	600:  ads122x04.Rate600SPS,
	1000: ads122x04.Rate1000SPS,
}

var turboRates = map[int]ads122x04.DataRate{
	40:   ads122x04.Rate40SPSTurbo,
	90:   ads122x04.Rate90SPSTurbo,
	180:  ads122x04.Rate180SPSTurbo,
	350:  ads122x04.Rate350SPSTurbo,
	660:  ads122x04.Rate660SPSTurbo,
	1200: ads122x04.Rate1200SPSTurbo,
	2000: ads122x04.Rate2000SPSTurbo,
}

func main() {
	i2cName := flag.String("i2c", "", "I²C bus name (ADS122C04)")
	addr := flag.Uint("addr", uint(ads122x04.DefaultAddr), "I²C device address")
	uartName := flag.String("uart", "", "Serial port device (ADS122U04)")
	baud := flag.Int("baud", 115200, "Serial port baud rate")
	gainFlag := flag.Int("gain", 1, "PGA gain (1, 2, 4 ... 128)")
	rateFlag := flag.Int("rate", 20, "Data rate in samples per second")
	turbo := flag.Bool("turbo", false, "Run the modulator in turbo mode")
	flag.Parse()

	gain, ok := gains[*gainFlag]
	if !ok {
		log.Fatal("Invalid gain")
	}
	rateMap := rates
	if *turbo {
		rateMap = turboRates
	}
	rate, ok := rateMap[*rateFlag]
	if !ok {
		log.Fatal("Invalid data rate")
	}

	var dev *ads122x04.Dev
	switch {
	case *uartName != "" && *i2cName != "":
		log.Fatal("Use only one of -i2c and -uart")
	case *uartName != "":
		p, err := serial.OpenPort(&serial.Config{Name: *uartName, Baud: *baud})
		if err != nil {
			log.Fatal(err)
		}
		dev, err = ads122x04.NewUART(uartPort{p})
		if err != nil {
			log.Fatal(err)
		}
	default:
		if _, err := host.Init(); err != nil {
			log.Fatal(err)
		}
		bus, err := i2creg.Open(*i2cName)
		if err != nil {
			log.Fatal(err)
		}
		dev, err = ads122x04.NewI2C(bus, uint16(*addr))
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := dev.Reset(); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetGain(gain); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetDataRate(rate); err != nil {
		log.Fatal(err)
	}
	if err := dev.SetConversionMode(ads122x04.Continuous); err != nil {
		log.Fatal(err)
	}
	if err := dev.Start(); err != nil {
		log.Fatal(err)
	}

	ticker := time.NewTicker(1 * time.Second)

	for {
		ready, err := dev.DataReady()
		if err != nil {
			log.Print(err)
		} else if ready {
			raw, err := dev.RawADC()
			if err != nil {
				log.Print(err)
			} else {
				log.Printf("raw: %d voltage: %fV", raw, dev.VoltageFromRaw(raw))
			}
		}

		<-ticker.C
	}
}
