// This file is part of ChipShop.
//
// ChipShop is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChipShop is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ChipShop.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chipshop/chipshop/digest"
	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/hardware/clocks"
	"github.com/chipshop/chipshop/hardware/y8950"
	"github.com/chipshop/chipshop/hardware/y8950/adpcm"
	"github.com/chipshop/chipshop/hardware/y8950/opl"
	"github.com/chipshop/chipshop/logger"
	"github.com/chipshop/chipshop/modalflag"
	"github.com/chipshop/chipshop/playback"
	"github.com/chipshop/chipshop/sdlaudio"
	"github.com/chipshop/chipshop/soundload"
	"github.com/chipshop/chipshop/statsview"
	"github.com/chipshop/chipshop/version"
	"github.com/chipshop/chipshop/wavwriter"
)

// the chip's register addresses for the ADPCM section, as seen through the
// address port. the offset into the engine's own register space has already
// been applied.
const (
	chipRegControl1 = 0x07
	chipRegControl2 = 0x08
	chipRegStartH   = 0x0a
	chipRegStopL    = 0x0b
	chipRegStopH    = 0x0c
	chipRegDeltaNL  = 0x10
	chipRegDeltaNH  = 0x11
	chipRegLevel    = 0x12
	chipRegLimitL   = 0x15
	chipRegLimitH   = 0x16
)

// default size of the ADPCM sample memory. 256Kbit DRAMs were the parts
// usually hung off the chip.
const defaultSampleMemory = 256 * 1024

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "PLAY", "TONE", "KEYS", "DIGEST", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		fallthrough
	case "PLAY":
		err = play(md)
	case "TONE":
		err = tone(md)
	case "KEYS":
		err = keys(md)
	case "DIGEST":
		err = digestMode(md)
	case "VERSION":
		vers, rev, _ := version.Version()
		fmt.Printf("%s (%s)\n", vers, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// writeRegister performs the two-cycle register write through the chip's
// address and data ports.
func writeRegister(chip *y8950.Chip, reg uint8, data uint8) {
	chip.WriteAddressPort(reg)
	chip.WriteDataPort(data)
}

// programSample sets up the ADPCM section to play the loaded sample from the
// bottom of sample memory.
func programSample(chip *y8950.Chip, snd *soundload.Sound, repeat bool) {
	// enable all IRQ status bits
	writeRegister(chip, y8950.AddrIRQControl, 0x00)

	writeRegister(chip, chipRegControl1, adpcm.CtrlReset)
	writeRegister(chip, chipRegControl2, 0x00)

	// the low byte of the start address has no port address of its own: the
	// chip routes 0x09 to the FM engine, exactly as the silicon does. the
	// sample is placed at the bottom of memory so only the reachable high
	// byte needs writing - the low byte keeps its power-on value of zero
	writeRegister(chip, chipRegStartH, 0x00)

	stop := snd.StopUnits()
	writeRegister(chip, chipRegStopL, uint8(stop))
	writeRegister(chip, chipRegStopH, uint8(stop>>8))

	writeRegister(chip, chipRegLimitL, 0xff)
	writeRegister(chip, chipRegLimitH, 0xff)

	dn := snd.DeltaN(chip.SampleRate())
	writeRegister(chip, chipRegDeltaNL, uint8(dn))
	writeRegister(chip, chipRegDeltaNH, uint8(dn>>8))

	writeRegister(chip, chipRegLevel, 0xff)

	ctrl := uint8(adpcm.CtrlStart | adpcm.CtrlExternal)
	if repeat {
		ctrl |= adpcm.CtrlRepeat
	}
	writeRegister(chip, chipRegControl1, ctrl)
}

func play(md *modalflag.Modes) error {
	md.NewMode()

	clock := md.AddInt("clock", clocks.SoundChip, "input clock of the sound chip (Hz)")
	wav := md.AddString("wav", "", "record audio to wav file")
	repeat := md.AddBool("repeat", false, "play the sample on a loop")
	memSize := md.AddInt("mem", defaultSampleMemory, "size of sample memory in bytes")
	stats := md.AddBool("stats", false, "launch statistics server")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, true)
	} else {
		logger.SetEcho(nil, false)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* statistics server not available in this build")
		}
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("audio file required for %s mode", md)
	}

	env := environment.NewEnvironment(environment.MainEmulation)

	mem := adpcm.NewRAM(uint32(*memSize))
	chip := y8950.NewChip(env, opl.NewEngine(env), adpcm.NewEngine(env, mem), *clock)

	snd, err := soundload.Load(env, md.GetArg(0), mem)
	if err != nil {
		return err
	}

	pump := playback.NewPump(env, chip, true)
	chip.AttachStreamer(pump)

	aud, err := sdlaudio.NewAudio(chip.SampleRate())
	if err != nil {
		return err
	}
	pump.AttachMixer(aud)

	if *wav != "" {
		pump.AttachMixer(wavwriter.New(*wav, chip.SampleRate()))
	}

	programSample(chip, snd, *repeat)

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true
		default:
			pump.Update()
			if !*repeat && chip.ReadStatusPort()&y8950.StatusADPCMEOS != 0 {
				done = true
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	return pump.EndMixing()
}

// the register values of the demonstration voice used by the TONE mode: a
// single carrier with a fast attack and a gentle decay, somewhere in the
// region of concert A.
func programTone(chip *y8950.Chip) {
	// modulator silent, output is the carrier alone. the carrier is a
	// sustaining voice so the note holds until key-off
	writeRegister(chip, 0xc0, 0x01)
	writeRegister(chip, 0x20, 0x21)
	writeRegister(chip, 0x23, 0x21)
	writeRegister(chip, 0x40, 0x3f)
	writeRegister(chip, 0x43, 0x00)
	writeRegister(chip, 0x63, 0xf4)
	writeRegister(chip, 0x83, 0x24)
	writeRegister(chip, 0xa0, 0x44)
	writeRegister(chip, 0xb0, 0x36)
}

func tone(md *modalflag.Modes) error {
	md.NewMode()

	clock := md.AddInt("clock", clocks.SoundChip, "input clock of the sound chip (Hz)")
	duration := md.AddDuration("duration", 2*time.Second, "how long to hold the note")
	wav := md.AddString("wav", "", "record audio to wav file")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout, true)
	} else {
		logger.SetEcho(nil, false)
	}

	env := environment.NewEnvironment(environment.MainEmulation)

	mem := adpcm.NewRAM(defaultSampleMemory)
	chip := y8950.NewChip(env, opl.NewEngine(env), adpcm.NewEngine(env, mem), *clock)

	pump := playback.NewPump(env, chip, true)
	chip.AttachStreamer(pump)

	aud, err := sdlaudio.NewAudio(chip.SampleRate())
	if err != nil {
		return err
	}
	pump.AttachMixer(aud)

	if *wav != "" {
		pump.AttachMixer(wavwriter.New(*wav, chip.SampleRate()))
	}

	programTone(chip)

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	end := time.Now().Add(*duration)
	for time.Now().Before(end) {
		select {
		case <-intChan:
			fmt.Println("\r")
			return pump.EndMixing()
		default:
			pump.Update()
			time.Sleep(10 * time.Millisecond)
		}
	}

	// key off and let the release stage play out
	writeRegister(chip, 0xb0, 0x16)
	end = time.Now().Add(250 * time.Millisecond)
	for time.Now().Before(end) {
		pump.Update()
		time.Sleep(10 * time.Millisecond)
	}

	return pump.EndMixing()
}

func digestMode(md *modalflag.Modes) error {
	md.NewMode()

	clock := md.AddInt("clock", clocks.SoundChip, "input clock of the sound chip (Hz)")
	seconds := md.AddInt("duration", 5, "length of the digested stream in seconds")
	repeat := md.AddBool("repeat", false, "play the sample on a loop")
	memSize := md.AddInt("mem", defaultSampleMemory, "size of sample memory in bytes")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// the digest must not depend on the wall clock, so logging stays off and
	// the pump runs in manual mode
	logger.SetEcho(nil, false)

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("audio file required for %s mode", md)
	}

	env := environment.NewEnvironment(environment.MainEmulation)

	mem := adpcm.NewRAM(uint32(*memSize))
	chip := y8950.NewChip(env, opl.NewEngine(env), adpcm.NewEngine(env, mem), *clock)

	snd, err := soundload.Load(env, md.GetArg(0), mem)
	if err != nil {
		return err
	}

	pump := playback.NewPump(env, chip, false)
	chip.AttachStreamer(pump)

	dig := digest.NewAudio()
	pump.AttachMixer(dig)

	programSample(chip, snd, *repeat)

	if err := pump.Advance(chip.SampleRate() * *seconds); err != nil {
		return err
	}
	if err := pump.EndMixing(); err != nil {
		return err
	}

	fmt.Println(dig.String())

	return nil
}
