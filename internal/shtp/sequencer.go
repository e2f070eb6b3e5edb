package shtp

// Sequencer holds one outgoing sequence counter per channel. Counters wrap
// from 255 to 0 without notice; the hub tolerates the wrap.
type Sequencer [NumChannels]uint8

// Next advances the counter for ch and returns the new value. It is called
// once per outgoing frame and never for received frames. An invalid channel
// has no counter: Next returns 0 and changes nothing.
func (s *Sequencer) Next(ch Channel) uint8 {
	if !ch.Valid() {
		return 0
	}
	s[ch]++
	return s[ch]
}

// Current returns the last sequence number sent on ch, or 0 for an invalid
// channel.
func (s Sequencer) Current(ch Channel) uint8 {
	if !ch.Valid() {
		return 0
	}
	return s[ch]
}
