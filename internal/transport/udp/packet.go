// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/binary"
	"fmt"
	"math"

	"micfeatures/internal/analysis"
)

/*
UDP Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Value Count       | uint16         | 2            | Number of floats (N=5)  |
| Values            | []float32      | N * 4        | rms, peak, low, mid, hi |
+-----------------------------------------------------------------------------+
*/

const (
	headerSize = 4 + 8 + 2
	// PacketSize is the size of a feature packet in bytes.
	PacketSize = headerSize + analysis.NumChannels*4
)

// Packet is a decoded feature packet.
type Packet struct {
	Sequence  uint32
	Timestamp int64
	Features  analysis.FeatureSnapshot
}

// AppendPacket appends the wire encoding of a feature packet to dst.
func AppendPacket(dst []byte, seq uint32, timestamp int64, s analysis.FeatureSnapshot) []byte {
	dst = binary.BigEndian.AppendUint32(dst, seq)
	dst = binary.BigEndian.AppendUint64(dst, uint64(timestamp))
	dst = binary.BigEndian.AppendUint16(dst, analysis.NumChannels)
	for _, v := range s.Values() {
		dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// DecodePacket parses a feature packet.
func DecodePacket(b []byte) (Packet, error) {
	if len(b) < headerSize {
		return Packet{}, fmt.Errorf("packet too short: %d bytes", len(b))
	}

	p := Packet{
		Sequence:  binary.BigEndian.Uint32(b[0:4]),
		Timestamp: int64(binary.BigEndian.Uint64(b[4:12])),
	}
	count := int(binary.BigEndian.Uint16(b[12:14]))
	if count != analysis.NumChannels {
		return Packet{}, fmt.Errorf("unexpected value count %d, want %d", count, analysis.NumChannels)
	}
	if len(b) != headerSize+count*4 {
		return Packet{}, fmt.Errorf("packet length %d does not match count %d", len(b), count)
	}

	var values [analysis.NumChannels]float32
	for i := range values {
		off := headerSize + i*4
		values[i] = math.Float32frombits(binary.BigEndian.Uint32(b[off : off+4]))
	}
	p.Features = analysis.FeatureSnapshot{
		NormalizedRMS:  values[analysis.ChannelRMS],
		NormalizedPeak: values[analysis.ChannelPeak],
		LowBandEnergy:  values[analysis.ChannelLow],
		MidBandEnergy:  values[analysis.ChannelMid],
		HighBandEnergy: values[analysis.ChannelHigh],
	}
	return p, nil
}
