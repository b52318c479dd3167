package audio

import (
	"bytes"
	"encoding/binary"
)

// wavHeaderSize is the byte length of a canonical PCM RIFF header.
const wavHeaderSize = 44

// WAV serializes the clip into an uncompressed RIFF/WAVE container entirely
// in memory, matching the capture parameters byte for byte.
func (c *Clip) WAV() []byte {
	byteRate := c.sampleRate * c.channels * c.bitDepth / 8
	blockAlign := c.channels * c.bitDepth / 8

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(c.pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(c.pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))             // PCM fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))              // linear PCM
	binary.Write(buf, binary.LittleEndian, uint16(c.channels))
	binary.Write(buf, binary.LittleEndian, uint32(c.sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(c.bitDepth))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(c.pcm)))
	buf.Write(c.pcm)

	return buf.Bytes()
}
