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

// Package playback moves samples from the sound chip to whatever wants to
// consume them. The Pump owns the timing: it decides how many samples the
// chip owes at any instant and fans each produced sample out to the
// attached mixers.
package playback

import (
	"time"

	"github.com/chipshop/chipshop/curated"
	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/logger"
)

// Mixer implementations consume the mono sample stream.
type Mixer interface {
	SetAudio(sample int16) error
	EndMixing() error
}

// Producer is the source of samples: the sound chip.
type Producer interface {
	ProduceSample() int16
	SampleRate() int
}

// the most samples a single catch-up will produce. prevents a stalled
// process (a debugger pause, a suspended laptop) turning into a minutes
// long burst of production.
const maxBurst = 65536

// Pump drives sample production. It implements the chip's Streamer
// interface, so register writes flush the stream before they land, and the
// Mixer interface is how consumers attach downstream.
//
// A Pump runs in one of two modes. In real time mode Update() produces
// every sample owed since the previous call according to the wall clock. In
// manual mode time only advances through Advance(), which suits regression
// runs where the caller owns the timeline.
type Pump struct {
	env  *environment.Environment
	prod Producer

	mixers []Mixer

	rate     int
	realtime bool

	// reference instant for real time mode
	epoch time.Time

	// samples produced since the epoch
	produced int64
}

// NewPump is the preferred method of initialisation for the Pump type.
func NewPump(env *environment.Environment, prod Producer, realtime bool) *Pump {
	return &Pump{
		env:      env,
		prod:     prod,
		rate:     prod.SampleRate(),
		realtime: realtime,
		epoch:    time.Now(),
	}
}

// AttachMixer adds a consumer of the sample stream.
func (p *Pump) AttachMixer(m Mixer) {
	p.mixers = append(p.mixers, m)
}

// SetSampleRate implements the chip's Streamer interface. Changing the rate
// restarts the timeline so that already-produced samples are not
// reinterpreted at the new rate.
func (p *Pump) SetSampleRate(rate int) {
	p.rate = rate
	p.epoch = time.Now()
	p.produced = 0
}

// Update implements the chip's Streamer interface: bring the stream up to
// date with the current instant. In manual mode the current instant is
// wherever Advance() last left it, so Update is a no-op.
func (p *Pump) Update() {
	if !p.realtime {
		return
	}

	owed := int64(time.Since(p.epoch).Seconds()*float64(p.rate)) - p.produced
	if owed > maxBurst {
		// too far behind to catch up honestly. drop the missing time
		logger.Logf(p.env, "playback", "dropping %d samples after stall", owed-maxBurst)
		p.produced += owed - maxBurst
		owed = maxBurst
	}

	if err := p.produce(int(owed)); err != nil {
		logger.Logf(p.env, "playback", "%v", err)
	}
}

// Advance the timeline by the given number of samples. Used in manual mode;
// harmless but pointless in real time mode.
func (p *Pump) Advance(samples int) error {
	return p.produce(samples)
}

func (p *Pump) produce(samples int) error {
	for i := 0; i < samples; i++ {
		s := p.prod.ProduceSample()
		p.produced++
		for _, m := range p.mixers {
			if err := m.SetAudio(s); err != nil {
				return curated.Errorf("playback: %v", err)
			}
		}
	}
	return nil
}

// EndMixing closes every attached mixer. The first error is returned but
// every mixer gets its EndMixing call regardless.
func (p *Pump) EndMixing() error {
	var rerr error
	for _, m := range p.mixers {
		if err := m.EndMixing(); err != nil && rerr == nil {
			rerr = curated.Errorf("playback: %v", err)
		}
	}
	return rerr
}
