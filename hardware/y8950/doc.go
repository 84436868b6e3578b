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

// Package y8950 emulates the Yamaha Y8950 sound chip, sold as MSX-AUDIO. The
// chip is an OPL FM synthesiser with an embedded ADPCM-B playback engine, a
// keyboard scan interface and a small general purpose I/O port, all
// multiplexed behind a single address/data register port pair.
//
// The Chip type owns the two sound engines and mediates every access to
// them. The host writes a register address to one port and data to the
// other; the address decides whether the data byte lands in the FM engine,
// the ADPCM engine or one of the auxiliary latches. Status from both engines
// is OR-combined into one byte, masked by the IRQ enable register, and fed
// back into the FM engine so that its own flag logic agrees with the
// combined view.
//
// Audio is produced one mono sample at a time by ProduceSample(). The sample
// rate is the input clock divided by 72. Register writes that land between
// samples must not retroactively alter samples that have already been
// produced, which is why every data port write first flushes the attached
// Streamer.
package y8950
