package shtp

import "testing"

func TestSequencerNextIsPerChannel(t *testing.T) {
	var s Sequencer

	for i := 1; i <= 3; i++ {
		if got := s.Next(ChannelHubControl); got != uint8(i) {
			t.Fatalf("Next(hub-control) = %d, want %d", got, i)
		}
	}
	if got := s.Current(ChannelExecutable); got != 0 {
		t.Errorf("executable counter moved to %d", got)
	}
	if got := s.Next(ChannelExecutable); got != 1 {
		t.Errorf("Next(executable) = %d, want 1", got)
	}
	if got := s.Current(ChannelHubControl); got != 3 {
		t.Errorf("Current(hub-control) = %d, want 3", got)
	}
}

func TestSequencerWraps(t *testing.T) {
	for ch := Channel(0); ch < NumChannels; ch++ {
		var s Sequencer
		s[ch] = 250

		for i := 1; i <= 300; i++ {
			want := uint8((250 + i) % 256)
			if got := s.Next(ch); got != want {
				t.Fatalf("channel %d step %d: Next = %d, want %d", ch, i, got, want)
			}
		}
		for other := Channel(0); other < NumChannels; other++ {
			if other != ch && s.Current(other) != 0 {
				t.Errorf("channel %d counter changed while advancing %d", other, ch)
			}
		}
	}
}

func TestSequencerIgnoresInvalidChannel(t *testing.T) {
	var s Sequencer
	s.Next(ChannelCommand)

	if got := s.Next(Channel(NumChannels)); got != 0 {
		t.Errorf("Next(invalid) = %d, want 0", got)
	}
	if got := s.Current(Channel(0xFF)); got != 0 {
		t.Errorf("Current(invalid) = %d, want 0", got)
	}
	if s != (Sequencer{1, 0, 0, 0, 0, 0}) {
		t.Errorf("counters changed: %v", s)
	}
}

func TestStateSequencesReadableByValue(t *testing.T) {
	d := NewDriver(NewMockTransport())
	if _, err := d.SendPacket(ChannelHubControl, []byte{HubProductIDReq, 0}); err != nil {
		t.Fatalf("SendPacket: %v", err)
	}
	if got := d.State().Sequences.Current(ChannelHubControl); got != 1 {
		t.Errorf("State().Sequences.Current(hub-control) = %d, want 1", got)
	}
}
