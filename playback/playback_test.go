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

package playback_test

import (
	"errors"
	"testing"

	"github.com/chipshop/chipshop/environment"
	"github.com/chipshop/chipshop/playback"
	"github.com/chipshop/chipshop/test"
)

// mockProducer emits a counting sequence.
type mockProducer struct {
	next int16
}

func (p *mockProducer) ProduceSample() int16 {
	s := p.next
	p.next++
	return s
}

func (p *mockProducer) SampleRate() int {
	return 49715
}

type mockMixer struct {
	samples []int16
	failAt  int
	ended   bool
}

func (m *mockMixer) SetAudio(sample int16) error {
	if m.failAt > 0 && len(m.samples)+1 >= m.failAt {
		return errors.New("mixer broke")
	}
	m.samples = append(m.samples, sample)
	return nil
}

func (m *mockMixer) EndMixing() error {
	m.ended = true
	return nil
}

func TestAdvanceFanOut(t *testing.T) {
	env := environment.NewEnvironment("test")
	pump := playback.NewPump(env, &mockProducer{}, false)

	a := &mockMixer{}
	b := &mockMixer{}
	pump.AttachMixer(a)
	pump.AttachMixer(b)

	err := pump.Advance(100)
	test.ExpectedSuccess(t, err)

	test.Equate(t, len(a.samples), 100)
	test.Equate(t, len(b.samples), 100)
	for i := range a.samples {
		test.Equate(t, a.samples[i], int16(i))
		test.Equate(t, b.samples[i], int16(i))
	}
}

func TestManualUpdateIsInert(t *testing.T) {
	env := environment.NewEnvironment("test")
	pump := playback.NewPump(env, &mockProducer{}, false)
	m := &mockMixer{}
	pump.AttachMixer(m)

	pump.Update()
	test.Equate(t, len(m.samples), 0)
}

func TestMixerError(t *testing.T) {
	env := environment.NewEnvironment("test")
	pump := playback.NewPump(env, &mockProducer{}, false)
	m := &mockMixer{failAt: 10}
	pump.AttachMixer(m)

	err := pump.Advance(100)
	test.ExpectedFailure(t, err)
}

func TestEndMixing(t *testing.T) {
	env := environment.NewEnvironment("test")
	pump := playback.NewPump(env, &mockProducer{}, false)

	a := &mockMixer{}
	b := &mockMixer{}
	pump.AttachMixer(a)
	pump.AttachMixer(b)

	test.ExpectedSuccess(t, pump.EndMixing())
	test.Equate(t, a.ended, true)
	test.Equate(t, b.ended, true)
}
